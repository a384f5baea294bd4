package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/Brajesh31/TEC-DEV-CL/internal/auth"
	"github.com/Brajesh31/TEC-DEV-CL/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "User created successfully", gin.H{
		"user":  result.User,
		"token": result.Token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "Login successful", gin.H{
		"user":            result.User,
		"token":           result.Token,
		"lastVisitedPage": result.User.LastVisitedPage,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	p := auth.PrincipalFrom(c.Request.Context())

	user, err := h.userService.GetCurrentUser(c.Request.Context(), p.Email)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "", gin.H{"user": user})
}

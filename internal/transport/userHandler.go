package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/Brajesh31/TEC-DEV-CL/internal/auth"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
	"github.com/Brajesh31/TEC-DEV-CL/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type lastActivityRequest struct {
	Page string `json:"page" binding:"required"`
}

func (h *UserHandler) UpdateLastActivity(c *gin.Context) {
	var req lastActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}
	p := auth.PrincipalFrom(c.Request.Context())

	user, err := h.userService.UpdateLastVisitedPage(c.Request.Context(), p.Email, req.Page)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "Last visited page updated", gin.H{"lastVisitedPage": user.LastVisitedPage})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var upd entity.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		BindingError(c, err)
		return
	}
	p := auth.PrincipalFrom(c.Request.Context())

	user, err := h.userService.UpdateProfile(c.Request.Context(), p.Email, &upd)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "Profile updated successfully", gin.H{"user": user})
}

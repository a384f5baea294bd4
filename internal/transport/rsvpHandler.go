package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/Brajesh31/TEC-DEV-CL/internal/auth"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
	"github.com/Brajesh31/TEC-DEV-CL/internal/service"
)

type RSVPHandler struct {
	rsvpService service.RSVPService
}

func NewRSVPHandler(rsvpService service.RSVPService) *RSVPHandler {
	return &RSVPHandler{rsvpService: rsvpService}
}

type updateStatusRequest struct {
	Status entity.RSVPStatus `json:"status" binding:"required"`
}

func (h *RSVPHandler) CreateRSVP(c *gin.Context) {
	var req service.CreateRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}
	req.UserEmail = reservingEmail(auth.PrincipalFrom(c.Request.Context()), req.UserEmail)

	rsvp, err := h.rsvpService.CreateRSVP(c.Request.Context(), &req)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "RSVP created successfully", gin.H{"rsvp": rsvp})
}

// reservingEmail picks the address an RSVP is filed under. Users reserve for
// themselves; admins may reserve on behalf of someone else.
func reservingEmail(p auth.Principal, requested string) string {
	switch {
	case p.IsAdmin():
		if requested == "" {
			return p.Email
		}
		return requested
	case p.IsUser():
		return p.Email
	}
	return requested
}

func (h *RSVPHandler) GetUserRSVPs(c *gin.Context) {
	rsvps, err := h.rsvpService.GetRSVPs(c.Request.Context(), entity.RSVPQuery{
		UserEmail: c.Param("email"),
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "", gin.H{"rsvps": rsvps})
}

func (h *RSVPHandler) GetEventRSVPs(c *gin.Context) {
	rsvps, err := h.rsvpService.GetRSVPs(c.Request.Context(), entity.RSVPQuery{
		EventID: c.Param("eventId"),
		Status:  entity.RSVPStatus(c.Query("status")),
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "", gin.H{"rsvps": rsvps})
}

func (h *RSVPHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}

	rsvp, err := h.rsvpService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "RSVP status updated successfully", gin.H{"rsvp": rsvp})
}

func (h *RSVPHandler) DeleteRSVP(c *gin.Context) {
	if err := h.rsvpService.DeleteRSVP(c.Request.Context(), c.Param("id")); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "RSVP deleted successfully", nil)
}

package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
	"github.com/Brajesh31/TEC-DEV-CL/internal/service"
)

// AdminHandler serves the /admin group. Status changes and deletion reuse
// RSVPHandler; only the cross-event listing and attendee counts live here.
type AdminHandler struct {
	rsvpService service.RSVPService
}

func NewAdminHandler(rsvpService service.RSVPService) *AdminHandler {
	return &AdminHandler{rsvpService: rsvpService}
}

func (h *AdminHandler) ListRSVPs(c *gin.Context) {
	rsvps, err := h.rsvpService.GetRSVPs(c.Request.Context(), entity.RSVPQuery{
		EventID: c.Query("eventId"),
		Status:  entity.RSVPStatus(c.Query("status")),
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "", gin.H{
		"rsvps": rsvps,
		"total": len(rsvps),
	})
}

func (h *AdminHandler) EventAttendees(c *gin.Context) {
	count, err := h.rsvpService.AttendeeCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "", gin.H{
		"eventId": c.Param("id"),
		"count":   count,
	})
}

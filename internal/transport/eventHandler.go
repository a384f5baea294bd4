package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
	"github.com/Brajesh31/TEC-DEV-CL/internal/service"
)

// createdByAPI marks events created through the API-key route.
const createdByAPI = "api-user"

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req, createdByAPI)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "Event created successfully", gin.H{"event": event})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "", gin.H{"event": event})
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	filter := entity.EventFilter(c.Query("filter"))

	events, err := h.eventService.ListEvents(c.Request.Context(), filter, c.Query("category"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "", gin.H{
		"events": events,
		"total":  len(events),
	})
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "Event updated successfully", gin.H{"event": event})
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventService.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, "Event deleted successfully", nil)
}

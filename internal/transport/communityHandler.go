package transport

import (
	"time"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	links map[string]string
}

func NewCommunityHandler(links map[string]string) *CommunityHandler {
	if links == nil {
		links = map[string]string{}
	}
	return &CommunityHandler{links: links}
}

func (h *CommunityHandler) Links(c *gin.Context) {
	SuccessResponse(c, "", gin.H{
		"data": gin.H{"links": h.links},
	})
}

// Health check
func Health(c *gin.Context) {
	SuccessResponse(c, "", gin.H{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

package transport

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Brajesh31/TEC-DEV-CL/internal/auth"
	"github.com/Brajesh31/TEC-DEV-CL/internal/transport/middleware"
)

// APIPrefix is the path every API route is mounted under.
const APIPrefix = "/api"

type Handlers struct {
	Auth      *AuthHandler
	Event     *EventHandler
	RSVP      *RSVPHandler
	User      *UserHandler
	Admin     *AdminHandler
	Community *CommunityHandler
}

type Security struct {
	Classifier    *auth.RouteClassifier
	Authenticator *auth.Authenticator
}

// InitRoutes builds the router. It fails when a registered route has no
// explicit access rule, so a new endpoint cannot silently fall back to the
// classifier default.
func InitRoutes(h *Handlers, sec Security, requestTimeout time.Duration) (*gin.Engine, error) {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(middleware.Authenticate(sec.Classifier, sec.Authenticator))

	api := router.Group(APIPrefix)
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/signup", h.Auth.Signup)
			authGroup.GET("/me", h.Auth.Me)
		}

		events := api.Group("/events")
		{
			events.GET("", h.Event.ListEvents)
			events.GET("/:id", h.Event.GetEvent)
			events.POST("/create", h.Event.CreateEvent)
			events.PUT("/:id", h.Event.UpdateEvent)
			events.DELETE("/:id", h.Event.DeleteEvent)
		}

		rsvp := api.Group("/rsvp")
		{
			rsvp.POST("", h.RSVP.CreateRSVP)
			rsvp.GET("/user/:email", h.RSVP.GetUserRSVPs)
			rsvp.GET("/event/:eventId", h.RSVP.GetEventRSVPs)
			rsvp.PUT("/:id/status", h.RSVP.UpdateStatus)
			rsvp.DELETE("/:id", h.RSVP.DeleteRSVP)
		}

		users := api.Group("/users")
		{
			users.PATCH("/last-activity", h.User.UpdateLastActivity)
			users.PUT("/profile", h.User.UpdateProfile)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/rsvps", h.Admin.ListRSVPs)
			admin.PUT("/rsvp/:id/status", h.RSVP.UpdateStatus)
			admin.DELETE("/rsvp/:id", h.RSVP.DeleteRSVP)
			admin.GET("/events/:id/attendees", h.Admin.EventAttendees)
		}

		api.GET("/community/links", h.Community.Links)

		// Health check
		api.GET("/health", Health)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Endpoint not found",
		})
	})

	if err := checkCoverage(router, sec.Classifier); err != nil {
		return nil, err
	}
	return router, nil
}

func checkCoverage(router *gin.Engine, classifier *auth.RouteClassifier) error {
	registered := router.Routes()
	routes := make([]auth.Route, 0, len(registered))
	for _, r := range registered {
		routes = append(routes, auth.Route{Method: r.Method, Path: r.Path})
	}

	missing := classifier.Uncovered(routes)
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for _, r := range missing {
		names = append(names, r.Method+" "+r.Path)
	}
	return fmt.Errorf("routes without an access rule: %s", strings.Join(names, ", "))
}

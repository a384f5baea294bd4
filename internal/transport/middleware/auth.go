package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/internal/auth"
)

// Authenticate classifies the request, resolves its principal and checks it
// against the route's access level before any handler runs. The admitted
// principal is bound to the request context.
func Authenticate(classifier *auth.RouteClassifier, authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		level := classifier.Classify(c.Request.Method, c.Request.URL.Path)

		principal, err := authenticator.Authenticate(ctx, c.Request.Header, level)
		if err != nil {
			if auth.IsAuthenticationError(err) {
				abort(c, http.StatusUnauthorized, err.Error())
				return
			}
			logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("authentication failed")
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		if err := auth.Authorize(principal, level); err != nil {
			c.Request = c.Request.WithContext(auth.WithPrincipal(ctx, principal))
			abort(c, http.StatusForbidden, err.Error())
			return
		}

		c.Request = c.Request.WithContext(auth.WithPrincipal(ctx, principal))
		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/internal/auth"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

// SuccessResponse writes {success: true, message?, <payload>...} with 200.
func SuccessResponse(c *gin.Context, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// ErrorResponse maps err to a status: 401 and 403 for auth failures, 400
// for every domain error and 500 for anything unclassified.
func ErrorResponse(c *gin.Context, err error) {
	status, message := classify(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("unhandled error")
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func classify(err error) (int, string) {
	switch {
	case auth.IsAuthenticationError(err):
		return http.StatusUnauthorized, err.Error()
	case auth.IsAuthorizationError(err):
		return http.StatusForbidden, err.Error()
	case entity.IsNotFound(err), entity.IsConflict(err), entity.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}

// BindingError answers a request body that failed to decode or validate.
func BindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": bindingMessage(err),
	})
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Please provide a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return field + " is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

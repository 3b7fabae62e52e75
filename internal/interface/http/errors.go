package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/brew-catalog-api/internal/application"
	"github.com/oksasatya/brew-catalog-api/internal/interface/middleware"
	"github.com/oksasatya/brew-catalog-api/pkg/helpers"
	"github.com/oksasatya/brew-catalog-api/pkg/response"
	"github.com/oksasatya/brew-catalog-api/pkg/validation"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgInvalidPayload     = "invalid payload"
	msgBeerNotFound       = "Beer not found."
	msgImagesDisabled     = "Image uploads are currently unavailable."
)

// writeError translates a service error into its status. Only validation
// messages are passed through; anything unexpected is logged and answered
// with the generic message.
func writeError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, application.ErrBeerNotFound):
		response.Error(c, http.StatusNotFound, msgBeerNotFound)
	case errors.Is(err, application.ErrImageStoreDisabled):
		response.Error(c, http.StatusServiceUnavailable, msgImagesDisabled)
	default:
		helpers.LogError(logger, op, err, logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"path":       c.FullPath(),
		})
		response.Internal(c)
	}
}

// badPayload rejects a request body that could not be bound. The binding
// details only go to the debug log.
func badPayload(c *gin.Context, logger *logrus.Logger, err error) {
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"details":    validation.ToDetails(err),
		}).Debug("rejected payload")
	}
	response.Error(c, http.StatusBadRequest, msgInvalidPayload)
}

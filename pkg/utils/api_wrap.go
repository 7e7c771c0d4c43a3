package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type APIError struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

// RespondJSON writes data as the bare response body.
func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

func RespondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, APIError{
		Error:   message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthenticated):
		RespondError(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, "Forbidden: trip belongs to another user")
	case errors.Is(err, ErrTripNotFound):
		RespondError(c, http.StatusNotFound, "Trip not found")
	case errors.Is(err, ErrAttractionNotFound):
		RespondError(c, http.StatusNotFound, "Attraction not found")
	case errors.Is(err, ErrAssociationNotFound):
		RespondError(c, http.StatusNotFound, "Attraction is not saved in this trip")
	case errors.Is(err, ErrAlreadyInTrip):
		RespondError(c, http.StatusConflict, "Attraction is already saved in this trip")
	case errors.Is(err, ErrDatabaseError):
		logrus.WithField("trace_id", traceID(c)).WithError(err).Error("Database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		logrus.WithField("trace_id", traceID(c)).WithError(err).Error("Unknown error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ginternational/backoffice/internal/httputil"
	"github.com/ginternational/backoffice/internal/metrics"
	"github.com/ginternational/backoffice/internal/middleware"
	"github.com/ginternational/backoffice/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodeInternalError   = "internal_error"
	ErrCodeValidationError = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondServiceError maps a service error onto the envelope. Anything that
// is not a caller error is logged with op and reported as a generic 500.
func respondServiceError(c *gin.Context, log *logrus.Logger, op string, err error) {
	var ve *models.ValidationError

	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, ve.Message)
	case errors.Is(err, models.ErrAuditNotFound), errors.Is(err, models.ErrUserNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(c, http.StatusConflict, ErrCodeConflict, "a user with this email or number already exists")
	default:
		log.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey)).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

// respondBindError reports a request that failed binding or struct validation.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request")
		return
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}

	respondError(c, http.StatusBadRequest, ErrCodeValidationError, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "targetmodel":
		return field + " is not a known target model"
	case "max":
		return field + " is too long"
	case "min":
		return field + " is too short"
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	return strings.ToLower(s[:1]) + s[1:]
}

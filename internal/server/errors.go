package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	accountdomain "github.com/stackhpc/coral-credits/internal/account/domain"
	allocationdomain "github.com/stackhpc/coral-credits/internal/allocation/domain"
	consumerdomain "github.com/stackhpc/coral-credits/internal/consumer/domain"
	providerdomain "github.com/stackhpc/coral-credits/internal/provider/domain"
	"github.com/stackhpc/coral-credits/internal/quota"
	resourceclassdomain "github.com/stackhpc/coral-credits/internal/resourceclass/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// mapError translates domain sentinels into transport statuses. Malformed
// input is the caller's fault (400), admission refusals are policy (403),
// duplicates conflict (409); anything unrecognized stays opaque (500).
func mapError(err error) (int, errorPayload) {
	switch {
	case isFormatError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isAdmissionRefusal(err):
		return http.StatusForbidden, errorPayload{
			Type:    "admission_refused",
			Message: err.Error(),
		}
	case isDuplicateError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isFormatError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, consumerdomain.ErrInvalidRequestFormat),
		errors.Is(err, resourceclassdomain.ErrInvalidName),
		errors.Is(err, providerdomain.ErrInvalidName),
		errors.Is(err, providerdomain.ErrInvalidEmail),
		errors.Is(err, providerdomain.ErrInvalidReference),
		errors.Is(err, accountdomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidEmail),
		errors.Is(err, allocationdomain.ErrInvalidName),
		errors.Is(err, allocationdomain.ErrInvalidWindow),
		errors.Is(err, allocationdomain.ErrInvalidReference):
		return true
	default:
		return false
	}
}

func isAdmissionRefusal(err error) bool {
	switch {
	case errors.Is(err, providerdomain.ErrNoMatchingAccount),
		errors.Is(err, allocationdomain.ErrNoActiveAllocation),
		errors.Is(err, allocationdomain.ErrUnknownResourceClass),
		errors.Is(err, quota.ErrNoCreditForResourceClass),
		errors.Is(err, quota.ErrInsufficientCredits),
		errors.Is(err, quota.ErrQuotaExceeded),
		errors.Is(err, consumerdomain.ErrNoMatchingPriorLease):
		return true
	default:
		return false
	}
}

func isDuplicateError(err error) bool {
	switch {
	case errors.Is(err, consumerdomain.ErrDuplicateLease),
		errors.Is(err, resourceclassdomain.ErrDuplicate),
		errors.Is(err, providerdomain.ErrDuplicate),
		errors.Is(err, accountdomain.ErrDuplicate),
		errors.Is(err, allocationdomain.ErrDuplicate):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, resourceclassdomain.ErrNotFound),
		errors.Is(err, accountdomain.ErrNotFound):
		return true
	default:
		return false
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return payload.Type, "internal"
	}
	return payload.Type, "client"
}

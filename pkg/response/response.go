package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Accepted sends 202 for a delivery queued for background processing.
func Accepted(c *gin.Context, eventID string) {
	c.JSON(http.StatusAccepted, NewOKResp(Delivery{Status: DeliveryAccepted, EventID: eventID}))
}

// Ignored sends 200 for a delivery that is valid but has nothing to run.
func Ignored(c *gin.Context, status, reason string) {
	c.JSON(http.StatusOK, NewOKResp(Delivery{Status: status, Reason: reason}))
}

// Error sends error response with status code and message.
func Error(c *gin.Context, err error, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}

	c.JSON(http.StatusBadRequest, Resp{
		ErrorCode: 1,
		Message:   err.Error(),
		Data:      data,
	})
}

// InternalError sends 500 internal server error.
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	})
}

// Unauthorized sends 401 response.
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Resp{
		ErrorCode: 401,
		Message:   "Unauthorized",
	})
}

// Forbidden sends 403 response.
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, Resp{
		ErrorCode: 403,
		Message:   "Forbidden",
	})
}

// TooManyRequests sends 429 response.
func TooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, Resp{
		ErrorCode: 429,
		Message:   "Too Many Requests",
	})
}

// ServiceUnavailable sends 503 response.
func ServiceUnavailable(c *gin.Context, reason string) {
	c.JSON(http.StatusServiceUnavailable, Resp{
		ErrorCode: 503,
		Message:   reason,
	})
}

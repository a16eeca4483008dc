package youtrack

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoStateField   = errors.New("project has no state field")
	ErrUnknownState   = errors.New("state not found in project state bundle")
	ErrMissingProject = errors.New("issue has no project")
)

// APIError is a non-2xx answer of the YouTrack REST API.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtrack %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Temporary reports whether repeating the request may succeed.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

package chroma

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Use errors.Is() to check.
var (
	// ErrNotFound is reported when a collection or document does not exist.
	ErrNotFound = errors.New("chroma: not found")

	// ErrResetDisabled is returned by Reset when the client was built
	// without WithAllowReset.
	ErrResetDisabled = errors.New("chroma: reset disabled (use WithAllowReset)")

	// ErrNotReady is returned when the server fails the readiness wait.
	ErrNotReady = errors.New("chroma: server not ready")
)

// APIError is a non-2xx response from the Chroma server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chroma: server returned %d", e.Status)
	}
	return fmt.Sprintf("chroma: server returned %d: %s", e.Status, e.Message)
}

// Is maps 404 responses onto ErrNotFound for errors.Is checks.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

package backend

import (
	"errors"
	"fmt"
)

// ErrUnauthorized covers 401/403 on an authenticated call. Callers treat it
// as an invalidated session: clear the token and prompt re-login.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a server-rejected request with the server's own message,
// surfaced to the buyer as-is when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

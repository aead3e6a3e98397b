package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured backend failure. Detail carries the backend's
// human-readable message when the response body had one.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Detail extracts the backend-supplied detail message from err,
// falling back to the given per-operation message when there is none.
func Detail(err error, fallback string) string {
	var gerr *Error
	if errors.As(err, &gerr) && gerr.Detail != "" {
		return gerr.Detail
	}
	return fallback
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Status == http.StatusUnauthorized
}

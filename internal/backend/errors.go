package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrNotFound     = errors.New("backend: not found")
	ErrTransport    = errors.New("backend: transport failure")
)

// Error is a failure reported by the backend, either through a non-2xx HTTP
// status or a non-200 envelope result code.
type Error struct {
	Op      string
	Status  int
	Code    int
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("backend %s: status=%d code=%d: %s", e.Op, e.Status, e.Code, msg)
}

// Is maps authentication and lookup failures onto the sentinel errors.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Code == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound || e.Code == http.StatusNotFound
	}
	return false
}

// Message returns the server-provided message carried by err, or fallback.
func Message(err error, fallback string) string {
	var be *Error
	if errors.As(err, &be) && strings.TrimSpace(be.Message) != "" {
		return be.Message
	}
	return fallback
}

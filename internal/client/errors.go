package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Yahiahu/SCM-sub000/internal/repository"
)

// APIError is returned for any non-2xx backend response. The backend does
// not distinguish validation, not-found and server failures beyond the code.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Is lets errors.Is(err, repository.ErrNotFound) match a backend 404.
func (e *APIError) Is(target error) bool {
	return target == repository.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func newAPIError(method, path string, statusCode int, body []byte) *APIError {
	message := http.StatusText(statusCode)

	var payload struct {
		Message string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && strings.TrimSpace(payload.Message) != "" {
		message = payload.Message
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Method:     method,
		Path:       path,
	}
}

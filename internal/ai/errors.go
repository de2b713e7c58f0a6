package ai

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrNoAnswer means the model replied with nothing usable.
	ErrNoAnswer = errors.New("ai: empty answer")
	// ErrTransport covers network and server-side failures.
	ErrTransport = errors.New("ai: transport error")
	// ErrQuota covers rejected credentials and rate limiting.
	ErrQuota = errors.New("ai: quota or auth error")
)

// classify maps provider errors onto the package taxonomy so callers can
// pick fallback copy without knowing the client library.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusForbidden:
			return ErrQuota
		}
	}
	return ErrTransport
}

package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication covers a missing, invalid, or revoked API key.
	ErrAuthentication = errors.New("provider authentication failed")
	// ErrRateLimited signals provider-side throttling; the caller should
	// surface a retry-later message rather than retrying automatically.
	ErrRateLimited = errors.New("provider rate limit exceeded")
	// ErrTimeout signals that the configured request deadline elapsed.
	ErrTimeout = errors.New("provider request timed out")
)

// ProviderError is any other non-2xx provider response. The provider's own
// message is kept so it can be shown to the user.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}

package provider

import "errors"

// Sentinel errors for generation backends.
var (
	// ErrRateLimit indicates the backend returned a rate limit response.
	ErrRateLimit = errors.New("provider rate limited")

	// ErrContextLength indicates the prompt exceeded the model's context window.
	ErrContextLength = errors.New("context length exceeded")

	// ErrProviderDown indicates the backend is temporarily unavailable.
	ErrProviderDown = errors.New("provider unavailable")

	// ErrEmptyResponse indicates the backend answered with no usable text.
	ErrEmptyResponse = errors.New("provider returned empty response")
)

// IsRetryable reports whether the error is transient and the request can be
// retried after a delay.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrProviderDown)
}

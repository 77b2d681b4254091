package travel

import "fmt"

// UserSafeMessage is shown to end users when the provider misbehaves. The
// raw provider detail is logged, never surfaced.
const UserSafeMessage = "We are currently unable to process your request. Please contact an agent or try again later."

// ValidationError is a pre-network rejection of malformed or out-of-range
// input. Its message is user-actionable and safe to surface.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError means the client-credentials exchange failed. Fatal to the
// single operation; the operation is not retried beyond the bounded retry
// inside token acquisition.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication with travel provider failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ProviderError is a non-2xx provider response. Detail carries the provider
// error body for diagnostics.
type ProviderError struct {
	StatusCode int
	Detail     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Detail)
}

// TransportError is a network or decode failure between us and the provider.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

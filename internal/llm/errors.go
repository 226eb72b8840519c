package llm

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrMissingAPIKey       = errors.New("api key not configured")
	ErrEmptyResponse       = errors.New("no response content")
)

// ProviderError wraps any failure that happened while talking to an
// upstream model, including a missing key.
type ProviderError struct {
	Provider Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerError(p Provider, err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: p, Err: err}
}

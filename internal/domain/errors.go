package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoInput          = errors.New("no input text or topic provided")
	ErrExtractionFailed = errors.New("content extraction failed")
	ErrEmptyResponse    = errors.New("model returned empty content")
)

// ProviderError reports a completion that failed after every attempt.
type ProviderError struct {
	Provider string
	Model    string
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s/%s failed after %d attempt(s): %v", e.Provider, e.Model, e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

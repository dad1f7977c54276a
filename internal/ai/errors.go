package ai

import (
	"errors"
	"fmt"

	"github.com/spigell/hire-agent/internal/utils"
)

// PreviewLength bounds the text carried by JSONParseError.
const PreviewLength = 200

// ErrEmptyResponse matches any EmptyResponseError.
var ErrEmptyResponse = errors.New("empty response")

// ProviderError wraps a vendor HTTP or SDK failure.
type ProviderError struct {
	Provider string
	Model    string
	// StatusCode is set for HTTP vendors when a response was received.
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (model %s): status %d: %v", e.Provider, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// EmptyResponseError reports a completion without usable content.
type EmptyResponseError struct {
	Provider string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s returned no content", e.Provider)
}

func (e *EmptyResponseError) Is(target error) bool {
	return target == ErrEmptyResponse
}

// NewEmptyResponse returns the uniform failure for a reply without content.
func NewEmptyResponse(provider, model string) error {
	return &ProviderError{
		Provider: provider,
		Model:    model,
		Err:      &EmptyResponseError{Provider: provider},
	}
}

// JSONParseError means no JSON could be recovered from a model reply.
type JSONParseError struct {
	// Preview holds at most PreviewLength runes of the reply.
	Preview string
	// Raw is the complete reply.
	Raw string
}

func NewJSONParseError(raw string) *JSONParseError {
	return &JSONParseError{
		Preview: utils.Head(raw, PreviewLength),
		Raw:     raw,
	}
}

func (e *JSONParseError) Error() string {
	return fmt.Sprintf("failed to parse model response as JSON: %s", e.Preview)
}

// IsProviderFailure reports whether err came from a vendor call.
func IsProviderFailure(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr) || errors.Is(err, ErrEmptyResponse)
}

// Package providers talks to external travel-data sources and returns their
// raw records.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/internal/tokencache"
)

// Record is one raw result object as the provider sent it.
type Record map[string]any

type Provider interface {
	Name() string
	Kind() models.Kind
	Search(ctx context.Context, q models.SearchQuery) ([]Record, error)
}

type ProviderError struct {
	Provider string
	// Status is the upstream HTTP status, or 0 when no response was received.
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, status int, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Status:   status,
		Err:      err,
	}
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Status
	}
	return 0
}

// Retryable reports whether repeating the request could succeed. Credential
// failures and client errors other than 408/429 are final.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var af *tokencache.AuthFailure
	if errors.As(err, &af) {
		return false
	}

	status := StatusOf(err)
	if status >= 400 && status < 500 {
		return status == http.StatusRequestTimeout || status == http.StatusTooManyRequests
	}
	return true
}

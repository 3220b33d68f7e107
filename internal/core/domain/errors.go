package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocument means ingestion produced zero usable chunks. Fatal to
	// index initialization, never retried automatically.
	ErrEmptyDocument = errors.New("empty document")
	// ErrIndexUnavailable means the vector index failed to load or build.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrExternalService marks transient embedding/LLM failures (timeout,
	// rate limit, network) that call sites may retry with backoff.
	ErrExternalService = errors.New("external service failure")
	// ErrMalformedAnswer means the primary answerer's JSON did not match the
	// expected shape. Fatal to that stage.
	ErrMalformedAnswer = errors.New("malformed structured answer")

	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

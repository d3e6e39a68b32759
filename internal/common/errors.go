// Package common defines shared constants and sentinel errors used across
// client and server layers of healthsync. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Request validation errors.
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupportedStore = errors.New("unsupported store type")

	// Store errors.
	ErrConnection = errors.New("store connection failed")
	ErrStatement  = errors.New("store statement failed")
	ErrBootstrap  = errors.New("schema bootstrap failed")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
)

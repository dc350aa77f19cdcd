package geolocate

import (
	"errors"
	"fmt"
)

// ErrorKind classifies geolocation failures. The Locator and the Resolver share it.
type ErrorKind int

const (
	// InvalidProvider: provider index outside {0, 1}. Never falls back.
	InvalidProvider ErrorKind = iota + 1
	// UpstreamUnavailable: non-2xx status or transport failure.
	UpstreamUnavailable
	// NoLocationData: the provider answered but has nothing for this address.
	NoLocationData
	// ServiceUnavailable: every provider in the chain failed.
	ServiceUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidProvider:
		return "invalid provider"
	case UpstreamUnavailable:
		return "upstream unavailable"
	case NoLocationData:
		return "no location data"
	case ServiceUnavailable:
		return "service is not available"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is
var (
	ErrInvalidProvider     = &Error{Kind: InvalidProvider, Provider: -1}
	ErrUpstreamUnavailable = &Error{Kind: UpstreamUnavailable, Provider: -1}
	ErrNoLocationData      = &Error{Kind: NoLocationData, Provider: -1}
	ErrServiceUnavailable  = &Error{Kind: ServiceUnavailable, Provider: -1}
)

// Error is a geolocation failure of a given kind.
// Provider is -1 when the failure is not tied to one provider.
type Error struct {
	Kind     ErrorKind
	Provider int
	Err      error
}

// NewError builds an Error; use provider -1 when no single provider is involved
func NewError(kind ErrorKind, provider int, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Provider >= 0 {
		msg = fmt.Sprintf("provider %d: %s", e.Provider, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind only, so errors.Is(err, ErrNoLocationData) works for any provider
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the kind of err, or 0 when err is not a geolocation error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

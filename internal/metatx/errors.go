package metatx

import (
	"errors"
	"fmt"
)

// ConfigurationError reports missing or malformed static configuration.
// It is fatal and never retried.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// DiscoveryError reports that the address discovery endpoint could not be
// reached or answered with something unusable.
type DiscoveryError struct {
	URL string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("address discovery via %s failed: %v", e.URL, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// ChainReadError reports a failed or malformed contract view call.
type ChainReadError struct {
	Op  string
	Err error
}

func (e *ChainReadError) Error() string {
	return fmt.Sprintf("chain read %s failed: %v", e.Op, e.Err)
}

func (e *ChainReadError) Unwrap() error { return e.Err }

// RelayUnreachableError reports a transport failure talking to the relay.
// The request may or may not have reached the relay.
type RelayUnreachableError struct {
	URL string
	Err error
}

func (e *RelayUnreachableError) Error() string {
	return fmt.Sprintf("relay %s unreachable: %v", e.URL, e.Err)
}

func (e *RelayUnreachableError) Unwrap() error { return e.Err }

// RelayRejectedError reports that the relay answered and refused the request.
// The same nonce must not be resubmitted.
type RelayRejectedError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *RelayRejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("relay rejected request with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("relay rejected request with status %d: %s", e.StatusCode, e.Body)
}

// SigningError reports absent or unusable key material.
type SigningError struct {
	Reason string
	Err    error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signing failed: %s: %v", e.Reason, e.Err)
	}
	return "signing failed: " + e.Reason
}

func (e *SigningError) Unwrap() error { return e.Err }

// InvalidRequestError reports caller input that cannot form a valid request.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// IsTransient reports whether err belongs to the network class of failures
// that a caller may retry by restarting the pipeline.
func IsTransient(err error) bool {
	var (
		discoveryErr   *DiscoveryError
		chainErr       *ChainReadError
		unreachableErr *RelayUnreachableError
	)
	return errors.As(err, &discoveryErr) ||
		errors.As(err, &chainErr) ||
		errors.As(err, &unreachableErr)
}

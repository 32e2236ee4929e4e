// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("catalog resource not found")
	// ErrNetwork is the sentinel error wrapped by NetworkError.
	ErrNetwork = errors.New("catalog request failed")
)

type (
	// NotFoundError is returned when the catalog answered but the expected
	// resource is absent: no releases, or no package asset in the newest one.
	NotFoundError struct {
		Release string // empty when the catalog has no releases
		Reason  string
	}

	// NetworkError is returned when the catalog request fails, answers with a
	// non-success status, or returns a body that cannot be decoded.
	NetworkError struct {
		URL        string
		StatusCode int        // zero when no response was received
		RateLimit  *RateLimit // set when the failure is a rate-limit exhaustion
		Err        error
	}

	// RateLimit carries the GitHub rate-limit headers of an exhausted quota.
	RateLimit struct {
		Limit   int
		ResetAt time.Time
	}
)

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Release == "" {
		return "catalog: " + e.Reason
	}
	return fmt.Sprintf("catalog: release %s: %s", e.Release, e.Reason)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface for NetworkError.
func (e *NetworkError) Error() string {
	var sb strings.Builder
	sb.WriteString("catalog: GET ")
	sb.WriteString(e.URL)
	switch {
	case e.RateLimit != nil:
		fmt.Fprintf(&sb, ": rate limit exceeded (limit %d, resets at %s)",
			e.RateLimit.Limit, e.RateLimit.ResetAt.UTC().Format("15:04 UTC"))
	case e.Err != nil && e.StatusCode != 0:
		fmt.Fprintf(&sb, ": status %d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		fmt.Fprintf(&sb, ": %v", e.Err)
	default:
		fmt.Fprintf(&sb, ": unexpected status %d", e.StatusCode)
	}
	return sb.String()
}

// Is reports ErrNetwork as a match so errors.Is works alongside Unwrap, which
// exposes the underlying transport error.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// Unwrap returns the underlying transport or decode error, if any.
func (e *NetworkError) Unwrap() error { return e.Err }

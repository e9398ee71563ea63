// Package position provides the satellite position sources: the open-notify
// HTTP API and an SGP4 propagation fallback driven by TLE data.
package position

import (
	"context"
	"fmt"

	"github.com/orbit/isswatch/internal/geo"
)

// Source yields the satellite's current sub-satellite point. Implementations
// do not retry internally; the monitor loop owns the retry policy.
type Source interface {
	Current(ctx context.Context) (geo.Coordinate, error)
}

// FetchError wraps a transport-level failure (network error, timeout,
// non-200 response) talking to a position source.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching position from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps a malformed response: bad JSON, missing fields, or
// non-numeric coordinate values.
type ParseError struct {
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing position response: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("parsing position response: %s", e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

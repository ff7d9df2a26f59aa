package ingest

import (
	"context"
	"fmt"
)

// RawRecord is the loosely-typed row shape every parser variant
// produces. Fields carry source casing and wording untouched; the
// normalizer owns canonicalization. Never persisted.
type RawRecord struct {
	Date     string
	Time     string
	Currency string
	Impact   string
	Title    string
}

// Fetcher retrieves a raw payload from a URL. Implementations perform
// real network I/O; the pipeline and tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Parser turns one raw payload shape into raw field records.
type Parser interface {
	Name() string
	Parse(raw []byte) ([]RawRecord, error)
}

// NetworkError is a transport-level retrieval failure. Recoverable:
// the pipeline advances the fallback chain.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError is a payload shape mismatch. Recoverable for CSV/XML
// (advances the chain); the HTML variant never raises one.
type ParseError struct {
	Format string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Format, e.Reason)
}

// Package errors provides structured error types used across the pipeline.
// We prefer these over raw fmt.Errorf strings to enable reliable checks with
// errors.Is / errors.As and to carry minimal context about the failure.
package errors

import (
	"errors"
	"fmt"
)

// ParseError indicates an internal fault inside one of the text
// interpreters (hours, price). Non-matching input is not an error; this
// covers genuinely unexpected states.
type ParseError struct {
	Op  string // where it happened (package.Function)
	Msg string // human friendly message
	Err error  // underlying cause (optional)
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse: %s: %s", e.Op, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

func NewParse(op, msg string, err error) error { return &ParseError{Op: op, Msg: msg, Err: err} }

// DBError represents database access/operation failures.
type DBError struct {
	Op  string
	Msg string
	Err error
}

func (e *DBError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("db: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("db: %s: %s", e.Op, e.Msg)
}

func (e *DBError) Unwrap() error { return e.Err }

func NewDB(op, msg string, err error) error { return &DBError{Op: op, Msg: msg, Err: err} }

// ScrapeError represents listing-page fetch/extract failures.
type ScrapeError struct {
	Op  string
	URL string
	Err error
}

func (e *ScrapeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("scrape: %s: %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("scrape: %s: %s", e.Op, e.URL)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

func NewScrape(op, url string, err error) error { return &ScrapeError{Op: op, URL: url, Err: err} }

// GeocodeError represents geocoding API failures.
type GeocodeError struct {
	Op  string
	Msg string
	Err error
}

func (e *GeocodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("geocode: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("geocode: %s: %s", e.Op, e.Msg)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

func NewGeocode(op, msg string, err error) error { return &GeocodeError{Op: op, Msg: msg, Err: err} }

// Is/As/Unwrap re-exports so callers don't need both imports.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func Unwrap(err error) error { return errors.Unwrap(err) }

// Package store provides the journal record storage interface with
// in-memory and SQLite implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/anger-log/internal/model"
)

// DefaultListLimit is the page size callers use when none is requested.
const DefaultListLimit = 50

var (
	// ErrNotFound is returned by Get when no record has the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrMalformedStoredData marks a stored column that failed to decode.
	// Readers substitute an empty list (or zero created_at) and keep going.
	ErrMalformedStoredData = errors.New("malformed stored data")
)

// ListParams holds pagination parameters for listing records. Limit is
// the window size as given; a zero Limit yields an empty page. Callers
// supply DefaultListLimit when the user asked for no particular size.
type ListParams struct {
	Limit  int
	Offset int
}

// Store defines the journal record storage interface.
type Store interface {
	// Create assigns a fresh id and creation time and stores r verbatim,
	// including its detected distortions. Returns the stored record.
	Create(ctx context.Context, r model.Record) (*model.Record, error)

	// List returns records newest first (ties by descending id),
	// windowed by offset and limit.
	List(ctx context.Context, p ListParams) ([]model.Record, error)

	// Get retrieves a record by id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Record, error)

	// ListByDateRange returns records whose calendar date lies within
	// [start, end], inclusive.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Record, error)

	// All returns a snapshot of every record.
	All(ctx context.Context) ([]model.Record, error)

	// Close closes the store.
	Close() error
}

func (p ListParams) limit() int {
	if p.Limit < 0 {
		return 0
	}
	return p.Limit
}

func (p ListParams) offset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// inDateRange compares calendar dates only. Unparseable dates never match.
func inDateRange(date string, start, end time.Time) bool {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return false
	}
	s := truncateDate(start)
	e := truncateDate(end)
	return !d.Before(s) && !d.After(e)
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Package store defines the storage interface for exported gear catalogs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/scbrown/gearcalc/internal/catalog"
	"github.com/scbrown/gearcalc/internal/model"
	"github.com/scbrown/gearcalc/internal/ratio"
)

// ErrReadOnly is returned by stores that cannot accept new runs.
var ErrReadOnly = errors.New("store is read-only")

// Store is the persistence interface for catalog runs.
type Store interface {
	// SaveRun persists a built catalog. Trains from earlier runs are replaced;
	// the run itself is kept in the run history.
	SaveRun(ctx context.Context, run model.Run, c *catalog.Catalog) error

	// ListRuns returns every run, newest first.
	ListRuns(ctx context.Context) ([]model.Run, error)

	// Lookup returns the trains stored for r, or nil if r is not reachable.
	Lookup(ctx context.Context, r ratio.Ratio) (*model.Entry, error)

	// ListRatios returns stored ratios ordered by value.
	ListRatios(ctx context.Context, opts RatioOpts) ([]model.RatioCount, error)

	// Close releases any resources held by the store.
	Close() error
}

// RatioOpts controls filtering for ListRatios.
type RatioOpts struct {
	MinTrains int // Only ratios with at least this many trains.
	MaxGears  int // Only ratios reachable with at most this many gears; 0 means any.
	Limit     int // Maximum results; 0 means no limit.
}

// NewRun describes c as a new run with a fresh ID.
func NewRun(c *catalog.Catalog) model.Run {
	return model.Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Gears:     c.Gears.Strings(),
		MinGears:  c.MinGears,
		MaxGears:  c.MaxGears,
		Ratios:    c.Len(),
		Trains:    c.Total(),
	}
}

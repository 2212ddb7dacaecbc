// Package catalog builds the complete ratio -> gear trains mapping for a gear
// catalog and writes it out as JSON.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/ratio"
	"github.com/scbrown/gearcalc/internal/search"
)

// Default train length bounds for a bulk build. Eight gears produce tens of
// millions of trains, so the default stops at six.
const (
	DefaultMinGears = 2
	DefaultMaxGears = 6
)

// Entry is one train and the ratio it produces.
type Entry struct {
	Ratio ratio.Ratio
	Train gear.Train
}

// Catalog maps each reachable ratio to every train that produces it.
// It is built once and not modified afterwards.
type Catalog struct {
	Gears    gear.Catalog
	MinGears int
	MaxGears int

	ratios map[ratio.Ratio][]gear.Train
	keys   []ratio.Ratio
	total  int
}

type buildConfig struct {
	log     *slog.Logger
	workers int
}

// Option configures Build.
type Option func(*buildConfig)

// WithLogger sets the logger for build progress.
func WithLogger(l *slog.Logger) Option {
	return func(c *buildConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithWorkers limits how many train lengths are enumerated at once.
// Zero or negative means one goroutine per length.
func WithWorkers(n int) Option {
	return func(c *buildConfig) { c.workers = n }
}

// Build enumerates every valid train with min to max gears and groups the
// trains by ratio. Lengths are enumerated concurrently; the result is the same
// as a sequential build: trains appear in length order, then catalog order.
func Build(ctx context.Context, gears gear.Catalog, min, max int, opts ...Option) (*Catalog, error) {
	cfg := buildConfig{log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(&cfg)
	}
	if err := search.ValidateRange(min, max); err != nil {
		return nil, err
	}
	if err := gears.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	pairs := gear.Pairs(gears)
	lengths := make([]int, 0, (max-min)/2+1)
	for n := min; n <= max; n += 2 {
		lengths = append(lengths, n)
	}
	tiers := make([][]Entry, len(lengths))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.workers > 0 {
		g.SetLimit(cfg.workers)
	}
	for i, n := range lengths {
		g.Go(func() error {
			start := time.Now()
			var entries []Entry
			err := search.Enumerate(gctx, pairs, n, func(t gear.Train, r ratio.Ratio) bool {
				entries = append(entries, Entry{Ratio: r, Train: t.Clone()})
				return true
			})
			if err != nil {
				return fmt.Errorf("enumerate %d gears: %w", n, err)
			}
			tiers[i] = entries
			cfg.log.Debug("enumerated gear count", "gears", n, "trains", len(entries), "elapsed", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Catalog{
		Gears:    gears,
		MinGears: min,
		MaxGears: max,
		ratios:   make(map[ratio.Ratio][]gear.Train),
	}
	for _, tier := range tiers {
		for _, e := range tier {
			c.add(e)
		}
	}
	c.sortKeys()
	cfg.log.Debug("built catalog", "ratios", len(c.keys), "trains", c.total, "min_gears", min, "max_gears", max)
	return c, nil
}

func (c *Catalog) add(e Entry) {
	if _, ok := c.ratios[e.Ratio]; !ok {
		c.keys = append(c.keys, e.Ratio)
	}
	c.ratios[e.Ratio] = append(c.ratios[e.Ratio], e.Train)
	c.total++
}

// sortKeys orders ratios by value, smallest reduction first.
func (c *Catalog) sortKeys() {
	sort.SliceStable(c.keys, func(i, j int) bool {
		return c.keys[i].Cmp(c.keys[j]) < 0
	})
}

// Ratios returns every reachable ratio ordered by value.
func (c *Catalog) Ratios() []ratio.Ratio {
	return c.keys
}

// Trains returns the trains producing r, shortest first, or nil.
func (c *Catalog) Trains(r ratio.Ratio) []gear.Train {
	return c.ratios[r]
}

// Len returns the number of distinct ratios.
func (c *Catalog) Len() int {
	return len(c.keys)
}

// Total returns the number of trains across all ratios.
func (c *Catalog) Total() int {
	return c.total
}

// Summary returns a one-line description such as "49 gear ratios, 63 gear trains".
func (c *Catalog) Summary() string {
	return fmt.Sprintf("%d gear ratios, %d gear trains", c.Len(), c.Total())
}

// Each calls fn for every ratio in value order, then every train in order.
func (c *Catalog) Each(fn func(r ratio.Ratio, t gear.Train) error) error {
	for _, r := range c.keys {
		for _, t := range c.ratios[r] {
			if err := fn(r, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON writes the catalog as {"num:den": [["8","36"], ...], ...} with
// four-space indentation.
func (c *Catalog) WriteJSON(w io.Writer) error {
	out := make(map[string][][]string, len(c.keys))
	for _, r := range c.keys {
		trains := c.ratios[r]
		tokens := make([][]string, len(trains))
		for i, t := range trains {
			tokens[i] = gear.Tokens(t)
		}
		out[r.String()] = tokens
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

// ReadJSON parses a catalog written by WriteJSON into ratio -> trains.
func ReadJSON(r io.Reader) (map[ratio.Ratio][]gear.Train, error) {
	var raw map[string][][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	out := make(map[ratio.Ratio][]gear.Train, len(raw))
	for key, tokenLists := range raw {
		rt, err := ratio.Parse(key)
		if err != nil {
			return nil, err
		}
		for _, tokens := range tokenLists {
			t, err := gear.ParseTokens(tokens)
			if err != nil {
				return nil, fmt.Errorf("ratio %s: %w", key, err)
			}
			out[rt] = append(out[rt], t)
		}
	}
	return out, nil
}

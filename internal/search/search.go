// Package search finds gear trains that realize a target ratio.
//
// The search is exhaustive: every even train length from MinGears to MaxGears
// is enumerated in catalog order, and the first length that yields exact
// matches wins. When no length does, the single train whose ratio is
// numerically closest to the target across every length tried is returned.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/ratio"
)

// Default train length bounds for a ratio search.
const (
	DefaultMinGears = 2
	DefaultMaxGears = 8
)

// ErrInvalidRange is returned when the train length bounds are unusable.
var ErrInvalidRange = errors.New("invalid gear count range")

// Kind tags a search result as exact or approximate.
type Kind int

const (
	Exact Kind = iota
	Approximate
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Approximate:
		return "approximate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Request describes one ratio search.
type Request struct {
	Target   ratio.Ratio
	Catalog  gear.Catalog
	MinGears int
	MaxGears int
}

// Validate rejects requests that cannot be searched.
func (r Request) Validate() error {
	if !r.Target.Positive() {
		return fmt.Errorf("target %s: %w", r.Target, ratio.ErrNonPositive)
	}
	if err := ValidateRange(r.MinGears, r.MaxGears); err != nil {
		return err
	}
	if err := r.Catalog.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}

// ValidateRange checks that min and max are even and 2 <= min <= max.
func ValidateRange(min, max int) error {
	if min < 2 || max < min {
		return fmt.Errorf("%w: need 2 <= min (%d) <= max (%d)", ErrInvalidRange, min, max)
	}
	if min%2 != 0 || max%2 != 0 {
		return fmt.Errorf("%w: min (%d) and max (%d) must be even", ErrInvalidRange, min, max)
	}
	return nil
}

// Result is the outcome of a search.
type Result struct {
	Kind   Kind
	Target ratio.Ratio
	// Ratio is the ratio the returned trains produce. It equals Target for
	// exact results.
	Ratio  ratio.Ratio
	Gears  int
	Trains []gear.Train
	// Delta is |Ratio - Target| as floats; zero for exact results.
	Delta float64
	// Explored counts the valid trains evaluated.
	Explored int
}

// Exact reports whether the result holds exact matches.
func (r *Result) Exact() bool {
	return r.Kind == Exact
}

// Engine runs searches.
type Engine struct {
	log *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New returns an Engine. Without WithLogger, log output is discarded.
func New(opts ...Option) *Engine {
	e := &Engine{log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Search looks for trains whose ratio equals req.Target exactly, preferring
// the fewest gears. It returns an Approximate result when no exact train
// exists within req.MaxGears. The target is reduced first, so 6:2 is
// searched as 3:1 and Result.Target reports the reduced form.
func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Target = ratio.MustSimplify(req.Target.Num, req.Target.Den)
	pairs := gear.Pairs(req.Catalog)
	closest := NewClosest(req.Target)
	explored := 0

	log := e.log.With("target", req.Target.String())
	for n := req.MinGears; n <= req.MaxGears; n += 2 {
		var exact []gear.Train
		err := Enumerate(ctx, pairs, n, func(t gear.Train, r ratio.Ratio) bool {
			explored++
			if r.Equal(req.Target) {
				exact = append(exact, t.Clone())
				return true
			}
			if closest.Offer(t, r) {
				_, _, delta, _ := closest.Best()
				log.Debug("new closest", "ratio", r.String(), "train", gear.Format(t), "delta", delta)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		log.Debug("searched gear count", "gears", n, "exact", len(exact), "explored", explored)

		if len(exact) > 0 {
			log.Debug("found exact match", "gears", n, "trains", len(exact), "explored", explored)
			return &Result{
				Kind:     Exact,
				Target:   req.Target,
				Ratio:    req.Target,
				Gears:    n,
				Trains:   exact,
				Explored: explored,
			}, nil
		}
	}

	best, r, delta, ok := closest.Best()
	if !ok {
		return nil, fmt.Errorf("search %s: no valid gear trains", req.Target)
	}
	log.Debug("no exact match", "closest", r.String(), "delta", delta, "explored", explored)
	return &Result{
		Kind:     Approximate,
		Target:   req.Target,
		Ratio:    r,
		Gears:    len(best),
		Trains:   []gear.Train{best},
		Delta:    delta,
		Explored: explored,
	}, nil
}

// Closest tracks the valid train whose ratio is nearest a target.
// The first train seen wins ties.
type Closest struct {
	target float64
	train  gear.Train
	ratio  ratio.Ratio
	delta  float64
	ok     bool
}

// NewClosest returns an empty accumulator for target.
func NewClosest(target ratio.Ratio) *Closest {
	return &Closest{target: target.Float(), delta: math.Inf(1)}
}

// Offer records t if its ratio is strictly closer to the target than the
// current best. It reports whether t became the new best. t is copied.
func (c *Closest) Offer(t gear.Train, r ratio.Ratio) bool {
	d := math.Abs(r.Float() - c.target)
	if c.ok && d >= c.delta {
		return false
	}
	c.train = t.Clone()
	c.ratio = r
	c.delta = d
	c.ok = true
	return true
}

// Best returns the closest train seen so far. ok is false when nothing has
// been offered.
func (c *Closest) Best() (t gear.Train, r ratio.Ratio, delta float64, ok bool) {
	return c.train, c.ratio, c.delta, c.ok
}

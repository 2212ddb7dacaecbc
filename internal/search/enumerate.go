package search

import (
	"context"
	"fmt"

	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/ratio"
)

// VisitFunc receives each valid train and its reduced ratio. The train is a
// shared buffer; callers that keep it must Clone it. Returning false stops
// the enumeration.
type VisitFunc func(t gear.Train, r ratio.Ratio) bool

// Enumerate visits every valid train of n gears built from pairs, in the
// same order as the Cartesian power of the catalog with the leftmost gear
// varying slowest. pairs must come from gear.Pairs so that trains with an
// invalid stage are skipped without visiting anything beneath them.
// A train whose ratio does not fit in int64 stops the walk with an error
// wrapping ratio.ErrOverflow.
func Enumerate(ctx context.Context, pairs []gear.Pair, n int, fn VisitFunc) error {
	if n <= 0 || n%2 != 0 {
		return fmt.Errorf("%w: train length %d must be a positive even number", ErrInvalidRange, n)
	}
	w := walker{
		pairs: pairs,
		train: make(gear.Train, n),
		fn:    fn,
	}
	one := ratio.Ratio{Num: 1, Den: 1}
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.train[0], w.train[1] = p.Driver, p.Follower
		if !w.step(0, one, p) {
			return w.err
		}
	}
	return nil
}

type walker struct {
	pairs []gear.Pair
	train gear.Train
	fn    VisitFunc
	err   error
}

// step applies p at position i to r and descends. w.train[i:i+2] must
// already hold p.
func (w *walker) step(i int, r ratio.Ratio, p gear.Pair) bool {
	next, err := p.Apply(r)
	if err != nil {
		w.err = fmt.Errorf("train %s: %w", gear.Format(w.train[:i+2]), err)
		return false
	}
	return w.walk(i+2, next)
}

// walk fills stages from position i on. r is the reduced ratio of the stages
// before i.
func (w *walker) walk(i int, r ratio.Ratio) bool {
	if i == len(w.train) {
		return w.fn(w.train, r)
	}
	for _, p := range w.pairs {
		w.train[i], w.train[i+1] = p.Driver, p.Follower
		if !w.step(i, r, p) {
			return false
		}
	}
	return true
}

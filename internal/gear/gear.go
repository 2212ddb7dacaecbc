// Package gear models gears, catalogs of gear sizes, and gear trains, and
// evaluates the reduction ratio a train produces.
package gear

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/scbrown/gearcalc/internal/ratio"
)

// Gear is a tooth count.
type Gear int

// Worm is the worm gear. It can drive another gear but is never driven.
const Worm Gear = 1

// noWormMesh is the follower a worm gear cannot line up with.
const noWormMesh Gear = 36

var (
	// ErrEmptyCatalog is returned when a catalog has no gears.
	ErrEmptyCatalog = errors.New("gear catalog is empty")

	// ErrNoUsablePairs is returned when no two gears in a catalog can mesh.
	ErrNoUsablePairs = errors.New("gear catalog has no usable mesh pairs")
)

// DefaultCatalog is the standard set of LEGO Technic gear sizes, worm first.
var DefaultCatalog = Catalog{1, 8, 12, 16, 20, 24, 36, 40, 56}

// Catalog is an ordered set of allowed gear sizes. Order determines the order
// in which trains are enumerated.
type Catalog []Gear

// Validate checks that the catalog is non-empty, holds only positive, distinct
// tooth counts, and admits at least one valid mesh pair.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[Gear]bool, len(c))
	for _, g := range c {
		if g <= 0 {
			return fmt.Errorf("invalid gear %d: tooth count must be positive", g)
		}
		if seen[g] {
			return fmt.Errorf("duplicate gear %d in catalog", g)
		}
		seen[g] = true
	}
	if len(Pairs(c)) == 0 {
		return ErrNoUsablePairs
	}
	return nil
}

// Strings returns the catalog as decimal strings.
func (c Catalog) Strings() []string {
	out := make([]string, len(c))
	for i, g := range c {
		out[i] = strconv.Itoa(int(g))
	}
	return out
}

// ParseCatalog builds a catalog from decimal tooth counts. Values like "8.0"
// are accepted as long as they are whole numbers.
func ParseCatalog(values []string) (Catalog, error) {
	c := make(Catalog, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid gear %q: %w", v, err)
		}
		if f != float64(int(f)) {
			return nil, fmt.Errorf("invalid gear %q: tooth count must be a whole number", v)
		}
		c = append(c, Gear(int(f)))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Meshes reports whether driver can drive follower. A worm gear is never a
// follower, a worm gear cannot drive a 36 tooth gear, and 1:1 pairs are
// rejected as wasted gears.
func Meshes(driver, follower Gear) bool {
	switch {
	case follower == Worm:
		return false
	case driver == Worm && follower == noWormMesh:
		return false
	case driver == follower:
		return false
	}
	return true
}

// Pair is one meshed stage of a train.
type Pair struct {
	Driver   Gear
	Follower Gear
}

// Pairs returns every valid pair over c, driver varying slowest.
func Pairs(c Catalog) []Pair {
	var pairs []Pair
	for _, d := range c {
		for _, f := range c {
			if Meshes(d, f) {
				pairs = append(pairs, Pair{Driver: d, Follower: f})
			}
		}
	}
	return pairs
}

// Train is an ordered sequence of gears. Gears 0 and 1 form the first mesh
// stage, gears 2 and 3 the second, and so on.
type Train []Gear

// Clone returns a copy of t.
func (t Train) Clone() Train {
	return slices.Clone(t)
}

// Apply returns r followed by the stage p, in lowest terms. It returns
// ratio.ErrOverflow when the result does not fit in int64. Apply does not
// check that p meshes.
func (p Pair) Apply(r ratio.Ratio) (ratio.Ratio, error) {
	return r.Mul(int64(p.Driver), int64(p.Follower))
}

// Evaluate returns the reduced ratio of a single train. The second result is
// false when t is empty, has an odd number of gears, contains a pair that
// cannot mesh, or produces a ratio that does not fit in int64. The search
// enumerator builds the same result stage by stage with Pair.Apply.
func Evaluate(t Train) (ratio.Ratio, bool) {
	if len(t) == 0 || len(t)%2 != 0 {
		return ratio.Ratio{}, false
	}
	r := ratio.Ratio{Num: 1, Den: 1}
	for i := 0; i < len(t); i += 2 {
		p := Pair{Driver: t[i], Follower: t[i+1]}
		if !Meshes(p.Driver, p.Follower) {
			return ratio.Ratio{}, false
		}
		var err error
		if r, err = p.Apply(r); err != nil {
			return ratio.Ratio{}, false
		}
	}
	return r, true
}

// Format renders t as mesh stages, e.g. "8:36 1:24".
func Format(t Train) string {
	var b strings.Builder
	for i, g := range t {
		if i > 0 {
			if i%2 == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte(':')
			}
		}
		b.WriteString(strconv.Itoa(int(g)))
	}
	return b.String()
}

// Tokens returns one decimal string per gear, e.g. ["8","36","1","24"].
func Tokens(t Train) []string {
	return Catalog(t).Strings()
}

// ParseTokens is the inverse of Tokens.
func ParseTokens(tokens []string) (Train, error) {
	t := make(Train, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid gear token %q: %w", tok, err)
		}
		t[i] = Gear(n)
	}
	return t, nil
}

// CanonicalKey returns the sorted multiset of gears in t. Solutions for one
// ratio that share a key are shown only once.
func CanonicalKey(t Train) string {
	sorted := t.Clone()
	slices.Sort(sorted)
	return strings.Join(Tokens(sorted), ",")
}

// Distinct returns the first train for each canonical key, in input order.
func Distinct(trains []Train) []Train {
	seen := make(map[string]bool, len(trains))
	var out []Train
	for _, t := range trains {
		k := CanonicalKey(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

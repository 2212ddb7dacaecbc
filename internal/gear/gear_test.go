package gear

import (
	"errors"
	"slices"
	"testing"

	"github.com/scbrown/gearcalc/internal/ratio"
)

func TestMeshes(t *testing.T) {
	tests := []struct {
		driver, follower Gear
		want             bool
	}{
		{8, 24, true},
		{1, 24, true},
		{56, 8, true},
		{24, 1, false},
		{1, 1, false},
		{1, 36, false},
		{8, 36, true},
		{36, 36, false},
		{12, 12, false},
	}
	for _, tt := range tests {
		if got := Meshes(tt.driver, tt.follower); got != tt.want {
			t.Errorf("Meshes(%d, %d) = %v, want %v", tt.driver, tt.follower, got, tt.want)
		}
	}
}

func TestMeshesEqualGearsAlwaysInvalid(t *testing.T) {
	for _, g := range DefaultCatalog {
		if _, ok := Evaluate(Train{g, g}); ok {
			t.Errorf("Evaluate(%d, %d) should be invalid", g, g)
		}
	}
}

func TestMeshesWormFollowerAlwaysInvalid(t *testing.T) {
	for _, g := range DefaultCatalog {
		if _, ok := Evaluate(Train{g, Worm}); ok {
			t.Errorf("Evaluate(%d, 1) should be invalid", g)
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		train Train
		want  ratio.Ratio
		ok    bool
	}{
		{"worm pair", Train{1, 24}, ratio.Ratio{Num: 1, Den: 24}, true},
		{"single reduction", Train{8, 24}, ratio.Ratio{Num: 1, Den: 3}, true},
		{"step up", Train{56, 8}, ratio.Ratio{Num: 7, Den: 1}, true},
		{"two stages", Train{8, 36, 1, 24}, ratio.Ratio{Num: 1, Den: 108}, true},
		{"reduces across stages", Train{12, 8, 16, 24}, ratio.Ratio{Num: 1, Den: 1}, true},
		{"worm follower in second stage", Train{8, 24, 24, 1}, ratio.Ratio{}, false},
		{"worm drives 36", Train{8, 24, 1, 36}, ratio.Ratio{}, false},
		{"one to one", Train{8, 24, 16, 16}, ratio.Ratio{}, false},
		{"odd length", Train{8, 24, 16}, ratio.Ratio{}, false},
		{"empty", Train{}, ratio.Ratio{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Evaluate(tt.train)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%v) = %v, want %v", tt.train, got, tt.want)
			}
		})
	}
}

func TestEvaluateLowestTerms(t *testing.T) {
	pairs := Pairs(DefaultCatalog)
	for _, a := range pairs {
		for _, b := range pairs {
			r, ok := Evaluate(Train{a.Driver, a.Follower, b.Driver, b.Follower})
			if !ok {
				t.Fatalf("valid pairs %v %v evaluated invalid", a, b)
			}
			if g := ratio.GCD(r.Num, r.Den); g != 1 {
				t.Fatalf("ratio %v not in lowest terms (gcd %d)", r, g)
			}
		}
	}
}

func TestPairs(t *testing.T) {
	pairs := Pairs(DefaultCatalog)
	// 9*9 combinations, minus 9 one-to-one, minus 8 other worm followers, minus worm:36.
	if len(pairs) != 63 {
		t.Fatalf("len(Pairs) = %d, want 63", len(pairs))
	}
	if pairs[0] != (Pair{Driver: 1, Follower: 8}) {
		t.Errorf("first pair = %v, want 1:8", pairs[0])
	}
	if last := pairs[len(pairs)-1]; last != (Pair{Driver: 56, Follower: 40}) {
		t.Errorf("last pair = %v, want 56:40", last)
	}
	for _, p := range pairs {
		if !Meshes(p.Driver, p.Follower) {
			t.Errorf("pair %v does not mesh", p)
		}
	}
}

func TestCatalogValidate(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		wantErr error
	}{
		{"default", DefaultCatalog, nil},
		{"empty", Catalog{}, ErrEmptyCatalog},
		{"only worm", Catalog{1}, ErrNoUsablePairs},
		{"single gear", Catalog{24}, ErrNoUsablePairs},
		{"worm and 36", Catalog{1, 36}, ErrNoUsablePairs},
		{"worm and 24", Catalog{1, 24}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalogValidateRejectsBadGears(t *testing.T) {
	if err := (Catalog{8, 0, 24}).Validate(); err == nil {
		t.Error("expected error for zero gear")
	}
	if err := (Catalog{8, 24, 8}).Validate(); err == nil {
		t.Error("expected error for duplicate gear")
	}
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]string{"1.0", "8", " 24 ", ""})
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if !slices.Equal(c, Catalog{1, 8, 24}) {
		t.Errorf("catalog = %v", c)
	}
	if _, err := ParseCatalog([]string{"8", "12.5"}); err == nil {
		t.Error("expected error for fractional gear")
	}
	if _, err := ParseCatalog([]string{"eight"}); err == nil {
		t.Error("expected error for non-numeric gear")
	}
	if _, err := ParseCatalog(nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("error = %v, want ErrEmptyCatalog", err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		train Train
		want  string
	}{
		{Train{8, 36, 1, 24}, "8:36 1:24"},
		{Train{56, 8}, "56:8"},
		{Train{16, 8, 16, 8, 16, 8, 24, 8}, "16:8 16:8 16:8 24:8"},
		{Train{}, ""},
	}
	for _, tt := range tests {
		if got := Format(tt.train); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.train, got, tt.want)
		}
	}
}

func TestTokensRoundTrip(t *testing.T) {
	train := Train{8, 36, 1, 24}
	tokens := Tokens(train)
	if !slices.Equal(tokens, []string{"8", "36", "1", "24"}) {
		t.Fatalf("Tokens = %v", tokens)
	}
	back, err := ParseTokens(tokens)
	if err != nil {
		t.Fatalf("ParseTokens: %v", err)
	}
	if !slices.Equal(back, train) {
		t.Errorf("ParseTokens = %v, want %v", back, train)
	}
	if _, err := ParseTokens([]string{"8:36"}); err == nil {
		t.Error("expected error for stage token")
	}
}

func TestCanonicalKey(t *testing.T) {
	a := Train{1, 8, 8, 36}
	b := Train{8, 36, 1, 8}
	if CanonicalKey(a) != CanonicalKey(b) {
		t.Errorf("keys differ: %q vs %q", CanonicalKey(a), CanonicalKey(b))
	}
	if got := CanonicalKey(b); got != "1,8,8,36" {
		t.Errorf("CanonicalKey = %q", got)
	}
	// Key computation must not reorder the input.
	if !slices.Equal(b, Train{8, 36, 1, 8}) {
		t.Errorf("input mutated: %v", b)
	}
}

func TestDistinct(t *testing.T) {
	trains := []Train{
		{1, 24, 8, 36},
		{8, 36, 1, 24},
		{24, 8},
		{36, 12},
	}
	got := Distinct(trains)
	if len(got) != 3 {
		t.Fatalf("len(Distinct) = %d, want 3", len(got))
	}
	if Format(got[0]) != "1:24 8:36" {
		t.Errorf("first distinct = %q, want first input kept", Format(got[0]))
	}
	if Distinct(nil) != nil {
		t.Error("Distinct(nil) should be nil")
	}
}

func TestPairApply(t *testing.T) {
	r := ratio.Ratio{Num: 1, Den: 1}
	var err error
	for _, p := range []Pair{{8, 36}, {1, 24}} {
		if r, err = p.Apply(r); err != nil {
			t.Fatalf("Apply(%v): %v", p, err)
		}
	}
	if r != (ratio.Ratio{Num: 1, Den: 108}) {
		t.Errorf("8:36 1:24 = %v, want 1:108", r)
	}
}

func TestEvaluateOverflow(t *testing.T) {
	var long Train
	for i := 0; i < 10; i++ {
		long = append(long, 197, 199)
	}
	if r, ok := Evaluate(long); ok {
		t.Errorf("Evaluate(%s) = %v, want invalid on overflow", Format(long), r)
	}
	if r, ok := Evaluate(long[:16]); !ok || !r.Positive() {
		t.Errorf("Evaluate(%s) = %v, %v", Format(long[:16]), r, ok)
	}
}

package model

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/ratio"
	"github.com/scbrown/gearcalc/internal/search"
)

func TestNewSolutionExact(t *testing.T) {
	res := &search.Result{
		Kind:     search.Exact,
		Target:   ratio.MustSimplify(1, 108),
		Ratio:    ratio.MustSimplify(1, 108),
		Gears:    4,
		Trains:   []gear.Train{{1, 24, 8, 36}, {8, 36, 1, 24}},
		Explored: 1234,
	}
	sol := NewSolution("2:216", res)

	if sol.Input != "2:216" || sol.Ratio != "1:108" || !sol.Exact || sol.Gears != 4 || sol.Explored != 1234 {
		t.Errorf("unexpected solution: %+v", sol)
	}
	if len(sol.Trains) != 2 || !slices.Equal(sol.Trains[1], []string{"8", "36", "1", "24"}) {
		t.Errorf("trains = %v", sol.Trains)
	}
	// Both trains use the same gears, so only the first is displayed.
	if !slices.Equal(sol.Display, []string{"1:24 8:36"}) {
		t.Errorf("display = %v", sol.Display)
	}
}

func TestNewSolutionApproximate(t *testing.T) {
	res := &search.Result{
		Kind:   search.Approximate,
		Target: ratio.MustSimplify(24, 1),
		Ratio:  ratio.MustSimplify(7, 1),
		Gears:  2,
		Trains: []gear.Train{{56, 8}},
		Delta:  17,
	}
	sol := NewSolution("24:1", res)
	if sol.Exact || sol.Ratio != "7:1" || sol.Delta != 17 {
		t.Errorf("unexpected solution: %+v", sol)
	}
	if !slices.Equal(sol.Display, []string{"56:8"}) {
		t.Errorf("display = %v", sol.Display)
	}
}

func TestSolutionJSONFields(t *testing.T) {
	sol := NewSolution("3:1", &search.Result{
		Kind:   search.Exact,
		Ratio:  ratio.MustSimplify(3, 1),
		Gears:  2,
		Trains: []gear.Train{{24, 8}},
	})
	data, err := json.Marshal(sol)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"input":"3:1"`, `"exact":true`, `"trains":[["24","8"]]`, `"display":["24:8"]`} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
	if strings.Contains(s, `"delta"`) {
		t.Errorf("exact solutions should omit delta: %s", s)
	}
}

func TestSolutionEmptyDisplayIsArray(t *testing.T) {
	sol := NewSolution("3:1", &search.Result{Kind: search.Exact, Ratio: ratio.MustSimplify(3, 1)})
	data, err := json.Marshal(sol)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"display":[]`) || !strings.Contains(string(data), `"trains":[]`) {
		t.Errorf("expected empty arrays, got %s", data)
	}
}

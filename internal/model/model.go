// Package model defines the JSON types shared by the CLI, the HTTP server and
// the catalog store: solutions (search results), runs (catalog exports) and
// ratio entries.
package model

import (
	"time"

	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/search"
)

// Solution is the result of a ratio search.
type Solution struct {
	Input    string     `json:"input"`
	Ratio    string     `json:"ratio"`
	Exact    bool       `json:"exact"`
	Gears    int        `json:"gears"`
	Delta    float64    `json:"delta,omitempty"`
	Explored int        `json:"explored"`
	Trains   [][]string `json:"trains"`
	Display  []string   `json:"display"`
}

// NewSolution converts a search result. input is the ratio as the caller
// wrote it; Display holds one line per distinct train.
func NewSolution(input string, res *search.Result) Solution {
	s := Solution{
		Input:    input,
		Ratio:    res.Ratio.String(),
		Exact:    res.Exact(),
		Gears:    res.Gears,
		Delta:    res.Delta,
		Explored: res.Explored,
		Trains:   make([][]string, len(res.Trains)),
		Display:  []string{},
	}
	for i, t := range res.Trains {
		s.Trains[i] = gear.Tokens(t)
	}
	for _, t := range gear.Distinct(res.Trains) {
		s.Display = append(s.Display, gear.Format(t))
	}
	return s
}

// Run describes one catalog export.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Gears     []string  `json:"gears"`
	MinGears  int       `json:"min_gears"`
	MaxGears  int       `json:"max_gears"`
	Ratios    int       `json:"ratios"`
	Trains    int       `json:"trains"`
}

// Entry lists the stored trains for one ratio.
type Entry struct {
	Ratio  string     `json:"ratio"`
	RunID  string     `json:"run_id,omitempty"`
	Trains [][]string `json:"trains"`
}

// RatioCount summarizes one stored ratio.
type RatioCount struct {
	Ratio    string  `json:"ratio"`
	Value    float64 `json:"value"`
	Count    int     `json:"count"`
	MinGears int     `json:"min_gears"`
}

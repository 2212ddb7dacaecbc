package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/ratio"
	"github.com/scbrown/gearcalc/internal/search"
	"github.com/scbrown/gearcalc/internal/store"
)

func parseInt(r *http.Request, key string) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, s, err)
	}
	return n, nil
}

// parseSearchRequest reads x, y, min and max query parameters. It returns
// the request and the ratio as the caller wrote it.
func parseSearchRequest(r *http.Request, c gear.Catalog, maxAllowed int) (search.Request, string, error) {
	q := r.URL.Query()
	x, y := q.Get("x"), q.Get("y")
	if x == "" || y == "" {
		return search.Request{}, "", fmt.Errorf("x and y query parameters are required")
	}
	target, err := ratio.FromDecimals(x, y)
	if err != nil {
		return search.Request{}, "", err
	}
	min, err := parseInt(r, "min")
	if err != nil {
		return search.Request{}, "", err
	}
	max, err := parseInt(r, "max")
	if err != nil {
		return search.Request{}, "", err
	}
	if min == 0 {
		min = search.DefaultMinGears
	}
	if max == 0 {
		max = maxAllowed
	}
	if max > maxAllowed {
		return search.Request{}, "", fmt.Errorf("max %d exceeds the server limit of %d gears", max, maxAllowed)
	}
	req := search.Request{Target: target, Catalog: c, MinGears: min, MaxGears: max}
	if err := req.Validate(); err != nil {
		return search.Request{}, "", err
	}
	return req, x + ":" + y, nil
}

func parseRatioOpts(r *http.Request) (store.RatioOpts, error) {
	limit, err := parseInt(r, "limit")
	if err != nil {
		return store.RatioOpts{}, err
	}
	minTrains, err := parseInt(r, "min_trains")
	if err != nil {
		return store.RatioOpts{}, err
	}
	maxGears, err := parseInt(r, "max_gears")
	if err != nil {
		return store.RatioOpts{}, err
	}
	return store.RatioOpts{Limit: limit, MinTrains: minTrains, MaxGears: maxGears}, nil
}

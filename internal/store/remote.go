package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/scbrown/gearcalc/internal/catalog"
	"github.com/scbrown/gearcalc/internal/model"
	"github.com/scbrown/gearcalc/internal/ratio"
)

// RemoteStore implements Store by forwarding requests over HTTP to a
// gearcalc serve instance. It is read-only.
type RemoteStore struct {
	baseURL string
	client  *http.Client
}

// NewRemote creates a RemoteStore pointing at the given base URL (e.g., "http://localhost:7274").
func NewRemote(baseURL string) *RemoteStore {
	return &RemoteStore{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SaveRun always fails; catalogs are exported on the server host.
func (r *RemoteStore) SaveRun(ctx context.Context, run model.Run, c *catalog.Catalog) error {
	return fmt.Errorf("remote save run: %w", ErrReadOnly)
}

func (r *RemoteStore) ListRuns(ctx context.Context) ([]model.Run, error) {
	var runs []model.Run
	if err := r.getJSON(ctx, "/api/v1/runs", nil, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *RemoteStore) Lookup(ctx context.Context, rt ratio.Ratio) (*model.Entry, error) {
	path := "/api/v1/ratios/" + url.PathEscape(fmt.Sprintf("%d-%d", rt.Num, rt.Den))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp)
	}
	var entry model.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &entry, nil
}

func (r *RemoteStore) ListRatios(ctx context.Context, opts RatioOpts) ([]model.RatioCount, error) {
	q := url.Values{}
	if opts.MinTrains > 0 {
		q.Set("min_trains", strconv.Itoa(opts.MinTrains))
	}
	if opts.MaxGears > 0 {
		q.Set("max_gears", strconv.Itoa(opts.MaxGears))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	var ratios []model.RatioCount
	if err := r.getJSON(ctx, "/api/v1/ratios", q, &ratios); err != nil {
		return nil, err
	}
	return ratios, nil
}

// Search runs a live search on the server.
func (r *RemoteStore) Search(ctx context.Context, x, y string, minGears, maxGears int) (*model.Solution, error) {
	q := url.Values{}
	q.Set("x", x)
	q.Set("y", y)
	if minGears > 0 {
		q.Set("min", strconv.Itoa(minGears))
	}
	if maxGears > 0 {
		q.Set("max", strconv.Itoa(maxGears))
	}
	var sol model.Solution
	if err := r.getJSON(ctx, "/api/v1/search", q, &sol); err != nil {
		return nil, err
	}
	return &sol, nil
}

// Close is a no-op for RemoteStore.
func (r *RemoteStore) Close() error {
	return nil
}

// getJSON performs a GET request and decodes the JSON response into dst.
func (r *RemoteStore) getJSON(ctx context.Context, path string, q url.Values, dst any) error {
	u := r.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return remoteError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// remoteError reads an error response from the server and returns it as an error.
func remoteError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("remote store (%d): %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Errorf("remote store (%d): %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

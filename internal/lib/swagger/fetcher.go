package swagger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultTimeout = 10 * time.Second

	// maxDocumentSize bounds how much of a remote response is read.
	maxDocumentSize = 10 << 20
)

// Fetch outcomes recorded on the document fetch counter.
const (
	OutcomeSuccess     = "success"
	OutcomeUnreachable = "unreachable"
	OutcomeBadStatus   = "bad_status"
	OutcomeNotJSON     = "not_json"
	OutcomeInvalid     = "invalid"
)

// FetchError is returned when a remote document cannot be retrieved or is not JSON.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: upstream responded %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher downloads documents over HTTP. Outbound calls show up as external segments
// of the current New Relic transaction.
type Fetcher struct {
	client  *http.Client
	fetches *prometheus.CounterVec
}

// NewFetcher builds a fetcher with a fixed per-request timeout. fetches may be nil.
func NewFetcher(timeout time.Duration, fetches *prometheus.CounterVec) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		},
		fetches: fetches,
	}
}

// Fetch downloads url and validates the result. Transport failures, non-2xx responses and
// non-JSON bodies yield *FetchError. A JSON body that is not a document yields
// *InvalidDocumentError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.record(OutcomeUnreachable)
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.record(OutcomeUnreachable)
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.record(OutcomeBadStatus)
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		f.record(OutcomeUnreachable)
		return nil, &FetchError{URL: url, Err: err}
	}

	if !json.Valid(body) {
		f.record(OutcomeNotJSON)
		return nil, &FetchError{URL: url, Err: errors.New("response body is not JSON")}
	}

	doc := json.RawMessage(body)
	if err := Validate(doc); err != nil {
		f.record(OutcomeInvalid)
		return nil, err
	}

	f.record(OutcomeSuccess)
	return doc, nil
}

func (f *Fetcher) record(outcome string) {
	if f.fetches != nil {
		f.fetches.WithLabelValues(outcome).Inc()
	}
}

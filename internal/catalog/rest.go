// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/streamcompare/internal/models"
)

// maxErrorBodySize limits how much of an error response is read for reporting.
const maxErrorBodySize = 64 * 1024

// RESTConfig configures a RESTProvider.
type RESTConfig struct {
	// BaseURL is the REST root, e.g. https://xyz.supabase.co/rest/v1
	BaseURL string

	// APIKey is sent as the apikey header and as a bearer token
	APIKey string

	// Timeout bounds each HTTP request
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the client-side rate limit
	RequestsPerSecond float64
	Burst             int

	// MaxRetries is the number of retries after HTTP 429 or 503
	MaxRetries int

	// RetryBackoff is the initial wait between retries; it doubles each attempt
	RetryBackoff time.Duration
}

// DefaultRESTConfig returns conservative client settings.
func DefaultRESTConfig() RESTConfig {
	return RESTConfig{
		Timeout:           10 * time.Second,
		RequestsPerSecond: 5,
		Burst:             3,
		MaxRetries:        3,
		RetryBackoff:      time.Second,
	}
}

// RESTProvider reads the catalog from a PostgREST-style backend exposing
// /services, /channels and /service_channels.
type RESTProvider struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// NewRESTProvider creates a provider for cfg.BaseURL.
//
//nolint:gocritic // hugeParam: config is read once at construction
func NewRESTProvider(cfg RESTConfig) (*RESTProvider, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog rest url %q", cfg.BaseURL)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRESTConfig().Timeout
	}

	return &RESTProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		client:     &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
	}, nil
}

// Name implements Provider.
func (p *RESTProvider) Name() string {
	return SourceREST
}

// FetchServices implements Provider.
func (p *RESTProvider) FetchServices(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	if err := p.get(ctx, "/services", url.Values{"order": {"id.asc"}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchChannels implements Provider.
func (p *RESTProvider) FetchChannels(ctx context.Context) ([]models.Channel, error) {
	var out []models.Channel
	if err := p.get(ctx, "/channels", url.Values{"order": {"id.asc"}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchServiceChannelMappings implements Provider.
func (p *RESTProvider) FetchServiceChannelMappings(ctx context.Context) ([]models.ServiceChannel, error) {
	var out []models.ServiceChannel
	params := url.Values{
		"select": {"service_id,channel_id"},
		"order":  {"service_id.asc,channel_id.asc"},
	}
	if err := p.get(ctx, "/service_channels", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// get issues a rate-limited GET and decodes the JSON body into dst.
// HTTP 429 and 503 are retried with exponential backoff.
func (p *RESTProvider) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	endpoint := p.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	backoff := p.backoff
	for attempt := 0; ; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		retryAfter, err := p.do(ctx, endpoint, dst)
		if err == nil {
			return nil
		}
		if retryAfter < 0 || attempt >= p.maxRetries {
			return err
		}

		wait := backoff
		if retryAfter > 0 {
			wait = retryAfter
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		backoff *= 2
	}
}

// do performs one request. A non-negative retryAfter means the failure is
// retryable; zero means no Retry-After header was sent.
func (p *RESTProvider) do(ctx context.Context, endpoint string, dst interface{}) (retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return -1, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return -1, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close() //nolint:errcheck // body fully consumed
	}()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusServiceUnavailable:
		return parseRetryAfter(resp.Header.Get("Retry-After")),
			fmt.Errorf("catalog rest %s: status %d", endpoint, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return -1, fmt.Errorf("catalog rest %s: status %d: %s", endpoint, resp.StatusCode, readBodyForError(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return -1, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return 0, nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// SubmitPath is the backend route that accepts audit submissions.
const SubmitPath = "/api/audit"

var ErrEmptyURL = errors.New("audit: url is required")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("audit backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("audit backend returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Submitter submits a URL for audit.
type Submitter interface {
	Submit(ctx context.Context, target string) (*Report, error)
}

type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
}

type options struct {
	verbose bool
	logger  zerolog.Logger
	token   string
	timeout time.Duration
	base    http.RoundTripper
}

type Option func(*options)

// WithVerbose logs every backend request and response through logger.
func WithVerbose(enabled bool, logger zerolog.Logger) Option {
	return func(o *options) {
		o.verbose = enabled
		o.logger = logger
	}
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = strings.TrimSpace(token)
	}
}

// WithTimeout bounds each request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithTransport replaces the base transport (mainly for tests).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.base = rt
	}
}

// loggingRoundTripper emits one debug line per request and response
// (including latency) when verbose logging is enabled.
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger zerolog.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("audit backend request")
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		t.logger.Debug().Err(err).Dur("elapsed", dur).Msg("audit backend error")
	} else {
		t.logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", dur).Msg("audit backend response")
	}
	return resp, err
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, errors.New("audit client: base URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("audit client: invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("audit client: base URL %q must use http or https", raw)
	}

	o := &options{logger: zerolog.Nop()}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}

	transport := o.base
	if transport == nil {
		transport = http.DefaultTransport
	}
	if o.verbose {
		transport = &loggingRoundTripper{base: transport, logger: o.logger}
	}
	if o.token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}

	return &Client{
		BaseURL: u,
		HTTP:    &http.Client{Transport: transport, Timeout: o.timeout},
	}, nil
}

func (c *Client) endpoint() string {
	u := *c.BaseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + SubmitPath
	return u.String()
}

type submitRequest struct {
	URL string `json:"url"`
}

// Submit posts target to the backend and decodes the returned report.
// There is no retry; a failure is terminal for this attempt.
func (c *Client) Submit(ctx context.Context, target string) (*Report, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrEmptyURL
	}

	body, err := json.Marshal(submitRequest{URL: target})
	if err != nil {
		return nil, fmt.Errorf("audit: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("audit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audit: submit %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("audit: decode response: %w", err)
	}
	if report.URL == "" {
		report.URL = target
	}
	return &report, nil
}

// Package fetch downloads remote resources with a bounded, fixed-delay retry.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/user/ocrbot/internal/errs"
)

// DefaultMaxBodyBytes matches Discord's default upload limit.
const DefaultMaxBodyBytes = 25 << 20

// Doer is the HTTP transport the fetcher drives. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Resource is a successfully downloaded body.
type Resource struct {
	URL         string
	Status      int
	ContentType string
	Body        []byte
}

// Fetcher downloads URLs, retrying non-2xx responses and transport errors.
type Fetcher struct {
	client       Doer
	policy       RetryPolicy
	sleep        Sleeper
	maxBodyBytes int64
	userAgent    string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP transport.
func WithClient(c Doer) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithRetryPolicy sets the attempt budget and delay.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(f *Fetcher) { f.policy = p }
}

// WithSleeper replaces the inter-attempt wait, mostly for tests.
func WithSleeper(s Sleeper) Option {
	return func(f *Fetcher) { f.sleep = s }
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBodyBytes = n }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// New creates a Fetcher. Without options it uses a 30s-timeout client and
// DefaultRetryPolicy.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       &http.Client{Timeout: 30 * time.Second},
		policy:       DefaultRetryPolicy(),
		sleep:        sleepContext,
		maxBodyBytes: DefaultMaxBodyBytes,
		userAgent:    "ocrbot/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

// Fetch downloads url. It makes up to MaxAttempts attempts, waiting Delay
// between attempts and never before the first. If the last attempt is still
// not 2xx the returned error has code errs.Fetch and carries the status.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Resource, error) {
	var (
		status  int
		lastErr error
	)
	attempts := f.policy.attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := f.sleep(ctx, f.policy.Delay); err != nil {
				return nil, errs.Wrapf(err, errs.Fetch, "fetch %s cancelled", url).WithDetail("status", status)
			}
		}

		res, err := f.do(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errs.Wrapf(err, errs.Fetch, "fetch %s cancelled", url).WithDetail("status", status)
			}
			if errs.IsCode(err, errs.InvalidInput) {
				return nil, err
			}
			status, lastErr = 0, err
			slog.Debug("fetch attempt failed", "url", url, "attempt", attempt, "error", err)
			continue
		}
		if ok(res.Status) {
			return res, nil
		}
		status, lastErr = res.Status, nil
		slog.Debug("fetch attempt returned non-success status", "url", url, "attempt", attempt, "status", res.Status)
	}

	if lastErr != nil {
		return nil, errs.Wrapf(lastErr, errs.Fetch, "fetch %s", url).WithDetail("status", 0)
	}
	return nil, errs.Newf(errs.Fetch, "%d %s", status, http.StatusText(status)).
		WithDetail("status", status).
		WithDetail("url", url)
}

func (f *Fetcher) do(ctx context.Context, url string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	res := &Resource{
		URL:         url,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if !ok(resp.StatusCode) {
		// Drain so the connection can be reused for the next attempt.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return res, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, errs.Newf(errs.InvalidInput, "response body exceeds %d bytes", f.maxBodyBytes)
	}
	res.Body = body
	return res, nil
}

// StatusOf returns the HTTP status carried by a Fetch error, or 0.
func StatusOf(err error) int {
	v, ok := errs.Detail(err, "status")
	if !ok {
		return 0
	}
	n, _ := v.(int)
	return n
}

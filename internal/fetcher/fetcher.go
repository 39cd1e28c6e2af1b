// Package fetcher builds page snapshots for the auditor. It fetches the target
// page and the well-known auxiliary files next to it, refusing to contact
// loopback and private hosts.
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/vnykmshr/goflow/pkg/ratelimit/bucket"
	"golang.org/x/sync/errgroup"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/util"
)

const (
	// DefaultTimeout bounds each individual fetch.
	DefaultTimeout = 10 * time.Second
	// AcceptHeader favors HTML responses.
	AcceptHeader = "text/html,application/xhtml+xml,*/*"

	maxBodySize  = 5 * 1024 * 1024
	maxRedirects = 10
)

var (
	// ErrTimeout is wrapped by errors from fetches that exceeded their timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrDNS is wrapped by errors from fetches whose host could not be resolved.
	ErrDNS = errors.New("DNS resolution failed")
)

// auxiliaryPaths are fetched from the origin of every audited page.
var auxiliaryPaths = []string{"/llms.txt", "/robots.txt", "/sitemap.xml", "/llms-full.txt", "/ai.txt"}

// Options configures a Fetcher.
type Options struct {
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
	Logger    *slog.Logger
	UserAgent string
	// Timeout bounds each fetch; zero means DefaultTimeout.
	Timeout time.Duration
	// Rate limits outbound requests per second; zero disables limiting.
	Rate float64
	// Insecure skips TLS certificate verification.
	Insecure bool
	// AllowPrivateHosts disables the internal host block.
	AllowPrivateHosts bool
}

// Fetcher fetches pages and their auxiliary resources.
type Fetcher struct {
	client      *http.Client
	rateLimiter domain.RateLimiter
	logger      *slog.Logger
	opts        Options
}

type response struct {
	header       http.Header
	body         string
	status       int
	ttfb         time.Duration
	total        time.Duration
	uncompressed bool
	truncated    bool
}

// New creates a Fetcher from the given options.
func New(opts Options) (*Fetcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = domain.DefaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	transport := opts.Transport
	if transport == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if opts.Insecure {
			base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via -insecure
		}
		transport = base
	}

	// Create token bucket rate limiter using goflow
	var rateLimiter domain.RateLimiter
	if opts.Rate > 0 {
		burst := int(opts.Rate * 2)
		if burst < 1 {
			burst = 1
		}
		limiter, err := bucket.NewSafe(bucket.Limit(opts.Rate), burst)
		if err != nil {
			return nil, fmt.Errorf("creating rate limiter: %w", err)
		}
		rateLimiter = limiter
	}

	f := &Fetcher{
		rateLimiter: rateLimiter,
		logger:      logger,
		opts:        opts,
	}
	f.client = &http.Client{
		Transport:     transport,
		CheckRedirect: f.checkRedirect,
	}
	return f, nil
}

// checkRedirect runs the host block on every redirect hop.
func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if f.opts.AllowPrivateHosts {
		return nil
	}
	return util.CheckHost(req.URL.Hostname())
}

// FetchPageData fetches the page at rawURL and the auxiliary resources of its
// origin. Failing to fetch the page itself is fatal; auxiliary failures are
// recorded in the corresponding FetchResult.
func (f *Fetcher) FetchPageData(ctx context.Context, rawURL string) (*domain.PageData, error) {
	target, err := util.ValidateTargetURL(util.NormalizeURL(rawURL), f.opts.AllowPrivateHosts)
	if err != nil {
		return nil, err
	}
	pageURL := target.String()

	resp, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(resp.header))
	for name, values := range resp.header {
		headers[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	// The transport drops Content-Encoding when it decompresses transparently
	if resp.uncompressed && headers["content-encoding"] == "" {
		headers["content-encoding"] = "gzip"
	}

	origin := target.Scheme + "://" + target.Host
	results := make([]domain.FetchResult, len(auxiliaryPaths))
	var g errgroup.Group
	for i, path := range auxiliaryPaths {
		g.Go(func() error {
			results[i] = f.fetchResource(ctx, origin+path)
			return nil
		})
	}
	_ = g.Wait()

	return &domain.PageData{
		URL:         pageURL,
		HTML:        resp.body,
		StatusCode:  resp.status,
		Truncated:   resp.truncated,
		Headers:     headers,
		TTFB:        resp.ttfb,
		TotalTime:   resp.total,
		LlmsTxt:     results[0],
		RobotsTxt:   results[1],
		SitemapXML:  results[2],
		LlmsFullTxt: results[3],
		AiTxt:       results[4],
	}, nil
}

// fetchResource fetches an auxiliary resource, converting every failure into
// a FetchResult with OK set to false and an empty body.
func (f *Fetcher) fetchResource(ctx context.Context, rawURL string) domain.FetchResult {
	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return domain.FetchResult{Error: err.Error()}
	}
	if resp.status < 200 || resp.status >= 300 {
		return domain.FetchResult{
			Status: resp.status,
			Error:  fmt.Sprintf("HTTP %d %s", resp.status, http.StatusText(resp.status)),
		}
	}
	return domain.FetchResult{OK: true, Status: resp.status, Body: resp.body}
}

// get performs one guarded, timeout-bounded GET and reads the whole body.
func (f *Fetcher) get(ctx context.Context, rawURL string) (*response, error) {
	target, err := util.ValidateTargetURL(rawURL, f.opts.AllowPrivateHosts)
	if err != nil {
		return nil, err
	}

	// Apply rate limiting using goflow's token bucket
	if f.rateLimiter != nil {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait canceled: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", AcceptHeader)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.classify(rawURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	ttfb := time.Since(start)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, f.classify(rawURL, fmt.Errorf("reading body: %w", err))
	}
	total := time.Since(start)

	truncated := len(body) > maxBodySize
	if truncated {
		body = body[:maxBodySize]
		f.logger.Warn("Response body truncated",
			"url", util.SanitizeURLDefault(rawURL),
			"limit_bytes", maxBodySize)
	}

	f.logger.Debug("Fetched resource",
		"url", util.SanitizeURLDefault(rawURL),
		"status", resp.StatusCode,
		"ttfb", ttfb,
		"elapsed", total)

	return &response{
		header:       resp.Header,
		body:         string(body),
		status:       resp.StatusCode,
		ttfb:         ttfb,
		total:        total,
		uncompressed: resp.Uncompressed,
		truncated:    truncated,
	}, nil
}

// classify maps transport errors onto the error kinds callers distinguish.
func (f *Fetcher) classify(rawURL string, err error) error {
	var blocked *util.BlockedHostError
	if errors.As(err, &blocked) {
		return blocked
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s after %s", ErrTimeout, util.SanitizeURLDefault(rawURL), f.opts.Timeout)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %w", ErrDNS, err)
	}
	return fmt.Errorf("fetching %s: %w", util.SanitizeURLDefault(rawURL), err)
}

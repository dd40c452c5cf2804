package tiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const maxTileBytes = 4 << 20

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// HTTPFetcher downloads tiles from a slippy-map server using a URL template
// with {z}, {x} and {y} placeholders.
type HTTPFetcher struct {
	template  string
	userAgent string
	session   *http.Client

	maxAttempts int
	backoff     time.Duration
}

func NewHTTPFetcher(template, userAgent string) (*HTTPFetcher, error) {
	template = strings.TrimSpace(template)
	for _, ph := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(template, ph) {
			return nil, fmt.Errorf("tile fetcher: url template %q is missing %s", template, ph)
		}
	}

	return &HTTPFetcher{
		template:    template,
		userAgent:   userAgent,
		session:     &http.Client{Timeout: 15 * time.Second},
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

func (f *HTTPFetcher) URL(z, x, y int) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	).Replace(f.template)
}

func (f *HTTPFetcher) Fetch(ctx context.Context, z, x, y int) ([]byte, error) {
	url := f.URL(z, x, y)

	resp, err := f.doWithRetry(ctx, func() (*http.Request, error) {
		return f.newRequest(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch tile %d/%d/%d: %w", z, x, y, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTileBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch tile %d/%d/%d: read body: %w", z, x, y, err)
	}
	return data, nil
}

func (f *HTTPFetcher) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Public OSM tile servers reject requests without an identifying agent.
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "image/png,image/*")

	return req, nil
}

func (f *HTTPFetcher) do(req *http.Request) (*http.Response, error) {
	resp, err := f.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx
// responses) using exponential backoff while respecting context cancellation.
func (f *HTTPFetcher) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := f.backoff

	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := f.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == f.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

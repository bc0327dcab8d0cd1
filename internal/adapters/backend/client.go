// internal/adapters/backend/client.go
package backend

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_dashboard/internal/adapters/observability"
	"hotel_dashboard/internal/domain"
)

const maxBody = 10 << 20

type Client struct {
	base  string
	hc    *http.Client
	token string
	rl    *rate.Limiter
}

func New(base, token string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: 15 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API (tries current routes first, falls back to legacy ones) ----

func (c *Client) ListBookings(ctx context.Context) ([]map[string]any, error) {
	candidates := []string{
		c.base + "/bookings",             // preferred
		c.base + "/bookings/my-bookings", // legacy
	}
	body, err := c.getFirst(ctx, "list bookings", candidates)
	if err != nil {
		return nil, err
	}
	out, err := decodeList(body, "bookings")
	if err != nil {
		return nil, &domain.ResponseError{Op: "list bookings", Status: http.StatusOK, Err: err}
	}
	return out, nil
}

func (c *Client) ListHotels(ctx context.Context) ([]map[string]any, error) {
	body, err := c.getFirst(ctx, "list hotels", []string{c.base + "/hotels"})
	if err != nil {
		return nil, err
	}
	out, err := decodeList(body, "hotels")
	if err != nil {
		return nil, &domain.ResponseError{Op: "list hotels", Status: http.StatusOK, Err: err}
	}
	return out, nil
}

func (c *Client) GetHotel(ctx context.Context, id string) (map[string]any, error) {
	body, err := c.getFirst(ctx, "get hotel", []string{c.base + "/hotels/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}
	out, err := decodeObject(body, "hotel")
	if err != nil {
		return nil, &domain.ResponseError{Op: "get hotel", Status: http.StatusOK, Err: err}
	}
	return out, nil
}

// ---- Internals ----

func (c *Client) getFirst(ctx context.Context, op string, urls []string) ([]byte, error) {
	var last error
	for _, u := range urls {
		body, err := c.get(ctx, op, u)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				last = err
				continue // try next route
			}
			return nil, err // non-404: stop early
		}
		return body, nil
	}
	if last != nil {
		return nil, last
	}
	return nil, errors.New("no candidate URL succeeded")
}

// get performs a GET with client-side rate limiting and retries, returning the
// raw body of a 2xx response. Retries on 429 and transient 5xx, honoring
// Retry-After when provided.
func (c *Client) get(ctx context.Context, op, u string) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	endpoint := endpointLabel(c.base, u)

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotel-dashboard/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("backend", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, &domain.TransportError{Op: op, Err: ctx.Err()}
			}
			lastErr = &domain.TransportError{Op: op, Err: err}
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, &domain.TransportError{Op: op, Err: ctx.Err()}
			}
			return nil, lastErr
		}
		observability.ObserveExternal("backend", endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
			resp.Body.Close()
			if err != nil {
				return nil, &domain.TransportError{Op: op, Err: err}
			}
			return b, nil

		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return nil, &domain.ResponseError{Op: op, Status: resp.StatusCode, Err: domain.ErrNotFound}

		case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusInternalServerError,
			resp.StatusCode == http.StatusBadGateway, resp.StatusCode == http.StatusServiceUnavailable,
			resp.StatusCode == http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			detail := readDetail(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = &domain.ResponseError{Op: op, Status: resp.StatusCode, Detail: detail}
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, &domain.TransportError{Op: op, Err: ctx.Err()}
			}
			return nil, lastErr

		default:
			return nil, &domain.ResponseError{Op: op, Status: resp.StatusCode, Detail: readDetail(resp)}
		}
	}

	return nil, lastErr
}

// readDetail drains and closes the body, returning the backend's error message
// if it sent one.
func readDetail(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	if msg := errorMessage(b); msg != "" {
		return msg
	}
	return strings.TrimSpace(string(b))
}

func endpointLabel(base, u string) string {
	p := strings.TrimPrefix(u, base)
	if strings.HasPrefix(p, "/hotels/") {
		return "/hotels/{id}"
	}
	return p
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 200ms, 400ms, 800ms... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}

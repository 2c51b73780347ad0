// Package roblox is a read-only client for the public account, inventory, avatar and badge APIs.
// It never retries; callers decide what a failure means.
package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	perr "rfinder/internal/platform/errors"
	"rfinder/internal/platform/logger"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 5 * time.Second
	// DefaultUserAgent mimics a desktop browser; the public endpoints reject some bare clients
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0 Safari/537.36"

	maxBody = 4 << 20
)

// Options configures the Client. Empty URLs fall back to the public hosts.
type Options struct {
	UsersURL       string
	InventoryURL   string
	AvatarURL      string
	AccountInfoURL string
	ThumbnailsURL  string

	UserAgent string
	Timeout   time.Duration

	// RPS paces all requests from this client when > 0
	RPS   float64
	Burst int

	HTTPClient *http.Client
}

func (o Options) withDefaults() Options {
	def := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	def(&o.UsersURL, "https://users.roblox.com")
	def(&o.InventoryURL, "https://inventory.roblox.com")
	def(&o.AvatarURL, "https://avatar.roblox.com")
	def(&o.AccountInfoURL, "https://accountinformation.roblox.com")
	def(&o.ThumbnailsURL, "https://thumbnails.roblox.com")
	def(&o.UserAgent, DefaultUserAgent)
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Burst <= 0 {
		o.Burst = 1
	}
	return o
}

// Client issues single, unretried requests with a fixed per-call timeout
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	log     *logger.Logger
	now     func() time.Time
}

// NewClient creates a Client with defaults applied
func NewClient(o Options) *Client {
	o = o.withDefaults()
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	var lim *rate.Limiter
	if o.RPS > 0 {
		lim = rate.NewLimiter(rate.Limit(o.RPS), o.Burst)
	}
	return &Client{
		http:    hc,
		opts:    o,
		limiter: lim,
		log:     logger.Named("roblox"),
		now:     time.Now,
	}
}

// do sends one request and maps every non-200 outcome onto an error code
func (c *Client) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeTransport, "request pacing aborted")
		}
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode request body")
		}
		rd = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		cancel()
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeTransport, "request failed"), method+" "+url)
	}
	c.log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("roblox http response")

	if resp.StatusCode == http.StatusOK {
		resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}
	defer cancel()
	return nil, statusError(resp)
}

// getJSON fetches url and decodes the body into out
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	return c.sendJSON(ctx, http.MethodGet, url, nil, out)
}

func (c *Client) sendJSON(ctx context.Context, method, url string, body, out any) error {
	resp, err := c.do(ctx, method, url, body)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("url", url).Msg("roblox close body failed")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return perr.Wrap(err, perr.ErrorCodeTransport, "read body timed out")
		}
		return perr.Wrap(err, perr.ErrorCodeTransport, "read body failed")
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "malformed payload")
	}
	return nil
}

// cancelBody releases the per-call timeout once the caller is done with the body
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

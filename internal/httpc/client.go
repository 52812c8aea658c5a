// Package httpc is a small client for the kiki HTTP control surface.
package httpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Default timeouts for HTTP operations.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultConnectTimeout  = 10 * time.Second
	DefaultKeepAlive       = 30 * time.Second
	DefaultIdleConnTimeout = 90 * time.Second
)

// ErrServer is returned for non-2xx responses; the message carries the
// server's "error" field.
var ErrServer = errors.New("httpc: server error")

// NewHTTPClient creates an http.Client with the package timeouts.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DefaultConnectTimeout,
				KeepAlive: DefaultKeepAlive,
			}).DialContext,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     DefaultIdleConnTimeout,
		},
	}
}

// Client talks to a running kiki serve.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client for addr ("localhost:8080" or a full URL).
func New(addr string, hc *http.Client) (*Client, error) {
	if hc == nil {
		hc = NewHTTPClient(DefaultTimeout)
	}
	if u, err := url.Parse(addr); err == nil && u.Scheme != "" && u.Host != "" {
		return &Client{base: u, http: hc}, nil
	}
	u, err := url.Parse("http://" + addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return &Client{base: u, http: hc}, nil
}

// Status returns the raw /api/status document.
func (c *Client) Status(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &out)
	return out, err
}

// Action queues a web action and returns the raw response.
func (c *Client) Action(ctx context.Context, cmd string, p1, p2 int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("cmd", cmd)
	q.Set("p1", strconv.Itoa(p1))
	q.Set("p2", strconv.Itoa(p2))

	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, "/api/action", q, &out)
	return out, err
}

// Stop flushes the queue and homes the dog.
func (c *Client) Stop(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/stop", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, out any) error {
	u := c.base.JoinPath(path)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return fmt.Errorf("%w: %d %s", ErrServer, resp.StatusCode, e.Error)
		}
		return fmt.Errorf("%w: %d", ErrServer, resp.StatusCode)
	}
	if out != nil {
		return json.Unmarshal(body, out)
	}
	return nil
}

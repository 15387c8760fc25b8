// Package lookup talks to the local word lookup service: the /ack handshake
// and fire-and-forget /word requests.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultEndPoint is where the lookup service listens unless configured otherwise.
	DefaultEndPoint = "http://127.0.0.1:8116"

	// AckSentinel is the body the service answers /ack with (U+2406, SYMBOL FOR ACKNOWLEDGE).
	AckSentinel = "␆"

	defaultTimeout = 5 * time.Second
	maxAckBody     = 64
)

// ErrNotReady means the service answered /ack with something other than the sentinel.
var ErrNotReady = errors.New("lookup service not ready")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client is a lookup service client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL. A zero timeout uses
// the default of five seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultEndPoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the service base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WordURL returns the lookup URL for word. The word is path-escaped, so an
// empty word yields "{base}/word/".
func (c *Client) WordURL(word string) string {
	// Unlike encodeURIComponent, PathEscape keeps "+&=$:@" as-is and escapes
	// "'". The service decodes the path segment either way.
	return c.baseURL + "/word/" + url.PathEscape(word)
}

// Ack performs the handshake. It returns nil only when the service answers
// with the sentinel body.
func (c *Client) Ack(ctx context.Context) error {
	ackURL := c.baseURL + "/ack"

	body, err := c.get(ctx, ackURL, maxAckBody)
	if err != nil {
		return err
	}

	if string(body) != AckSentinel {
		return fmt.Errorf("%w: unexpected ack body %q", ErrNotReady, body)
	}

	return nil
}

// Word asks the service to look up word. The response body is discarded.
func (c *Client) Word(ctx context.Context, word string) error {
	_, err := c.get(ctx, c.WordURL(word), 0)
	return err
}

// get issues a GET and returns up to limit bytes of the body. The rest of the
// body is drained so the connection can be reused.
func (c *Client) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()
	defer io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if limit <= 0 {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return body, nil
}

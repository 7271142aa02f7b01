package kratos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultRetryWaitMin = 200 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
	maxResponseBytes    = 10 << 20

	headerAccept        = "Accept"
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	headerLink          = "Link"
	contentTypeJSON     = "application/json"
	bearerPrefix        = "Bearer "
)

// Observer receives one callback per provider round-trip. status is 0 when
// no response was received.
type Observer interface {
	ObserveProviderCall(op string, status int, elapsed time.Duration)
}

// Config configures a Client.
type Config struct {
	PublicBaseURL string
	AdminBaseURL  string
	WhoAmIURL     string
	Timeout       time.Duration
	RetryMax      int
	RetryWaitMin  time.Duration
	RetryWaitMax  time.Duration
	Observer      Observer
}

// Client talks to the identity provider's public and admin APIs. Reads that
// are safe to repeat go through a retrying client; writes are sent once.
type Client struct {
	public   *url.URL
	admin    *url.URL
	whoami   string
	reads    *retryablehttp.Client
	writes   *http.Client
	observer Observer
}

func New(cfg Config) (*Client, error) {
	public, err := parseBase(cfg.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("public base url: %w", err)
	}
	admin, err := parseBase(cfg.AdminBaseURL)
	if err != nil {
		return nil, fmt.Errorf("admin base url: %w", err)
	}

	whoami := cfg.WhoAmIURL
	if whoami == "" {
		whoami = public.JoinPath("sessions", "whoami").String()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	reads := retryablehttp.NewClient()
	reads.HTTPClient = httpClient
	reads.RetryMax = cfg.RetryMax
	reads.RetryWaitMin = orDefault(cfg.RetryWaitMin, defaultRetryWaitMin)
	reads.RetryWaitMax = orDefault(cfg.RetryWaitMax, defaultRetryWaitMax)
	reads.CheckRetry = retryablehttp.DefaultRetryPolicy
	reads.ErrorHandler = retryablehttp.PassthroughErrorHandler
	reads.Logger = retryLogger{}

	return &Client{
		public:   public,
		admin:    admin,
		whoami:   whoami,
		reads:    reads,
		writes:   httpClient,
		observer: cfg.Observer,
	}, nil
}

func parseBase(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %q", raw)
	}
	return u, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type request struct {
	op     string
	method string
	url    string
	body   any
	token  string
	retry  bool
}

func (c *Client) send(ctx context.Context, r request) (*response, error) {
	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("kratos %s: marshal request: %w", r.op, err)
		}
	}

	start := time.Now()
	resp, err := c.roundTrip(ctx, r, payload)
	if err != nil {
		c.observe(r.op, 0, time.Since(start))
		return nil, fmt.Errorf("kratos %s: %w", r.op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.observe(r.op, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("kratos %s: read response: %w", r.op, err)
	}

	return &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (c *Client) roundTrip(ctx context.Context, r request, payload []byte) (*http.Response, error) {
	if r.retry {
		var body any
		if payload != nil {
			body = payload
		}
		req, err := retryablehttp.NewRequestWithContext(ctx, r.method, r.url, body)
		if err != nil {
			return nil, err
		}
		setHeaders(req.Header, r.token, payload != nil)
		return c.reads.Do(req)
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, err
	}
	setHeaders(req.Header, r.token, payload != nil)
	return c.writes.Do(req)
}

func setHeaders(h http.Header, token string, hasBody bool) {
	h.Set(headerAccept, contentTypeJSON)
	if hasBody {
		h.Set(headerContentType, contentTypeJSON)
	}
	if token != "" {
		h.Set(headerAuthorization, bearerPrefix+token)
	}
}

func (c *Client) observe(op string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveProviderCall(op, status, elapsed)
	}
}

// expect decodes the body into out when the status matches, and returns a
// *StatusError otherwise.
func expect(op string, resp *response, status int, out any) error {
	if resp.StatusCode != status {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: resp.Body}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("kratos %s: decode response: %w", op, err)
	}
	return nil
}

// retryLogger forwards retry warnings to the standard logger and drops the
// per-request debug chatter.
type retryLogger struct{}

func (retryLogger) Error(msg string, kv ...interface{}) { log.Printf("kratos: %s %v", msg, kv) }
func (retryLogger) Warn(msg string, kv ...interface{})  { log.Printf("kratos: %s %v", msg, kv) }
func (retryLogger) Info(string, ...interface{})         {}
func (retryLogger) Debug(string, ...interface{})        {}

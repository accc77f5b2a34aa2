package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/abdul-hamid-achik/studyhub/packages/auth/token"
	"github.com/abdul-hamid-achik/studyhub/packages/core/config"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// LoginPath is where the client navigates after a 401
	LoginPath = "/login"
	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-ID"
)

// TokenSource is the credential storage the client reads on every request
// and clears on 401. token.Store implementations satisfy it.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
	Delete(ctx context.Context) error
}

// Navigator moves the host application to another view.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type Client struct {
	rc *resty.Client

	baseURL        string
	configured     bool
	timeout        time.Duration
	defaultHeaders map[string]string
	transport      http.RoundTripper
	requestID      bool

	tokens    TokenSource
	navigator Navigator
	logger    *slog.Logger

	handlers         []FailureHandler
	defaultReactions bool
}

type ClientOption func(*Client)

// NewClient builds a client for baseURL. Trailing slashes are dropped so
// request paths can always start with "/".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		defaultHeaders: map[string]string{
			"Content-Type": "application/json",
		},
		logger:           slog.Default(),
		defaultReactions: true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.defaultReactions {
		reactions := []FailureHandler{
			ClearTokenOnUnauthorized(c.tokens, c.logger),
			NavigateOnUnauthorized(c.navigator),
			LogNetworkFailure(c.logger),
		}
		c.handlers = append(reactions, c.handlers...)
	}

	rc := resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(c.timeout).
		SetLogger(restyLogger{logger: c.logger})

	if c.transport != nil {
		rc.SetTransport(c.transport)
	}
	for k, v := range c.defaultHeaders {
		rc.SetHeader(k, v)
	}

	// Interceptors go on after the client is fully configured
	rc.OnBeforeRequest(c.interceptRequest)

	c.rc = rc
	return c
}

// FromBackend builds a client for a resolved backend configuration.
func FromBackend(backend config.Backend, opts ...ClientOption) *Client {
	c := NewClient(backend.BaseURL(), opts...)
	c.configured = backend.IsConfigured()
	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

// WithDefaultHeaders sets multiple default headers for all requests
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithTokenSource sets where the bearer token is read from
func WithTokenSource(tokens TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithNavigator sets what happens when the client sends the user to /login
func WithNavigator(nav Navigator) ClientOption {
	return func(c *Client) {
		c.navigator = nav
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransport replaces the underlying RoundTripper
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithRequestID stamps an X-Request-ID on requests that don't carry one
func WithRequestID(enabled bool) ClientOption {
	return func(c *Client) {
		c.requestID = enabled
	}
}

// WithFailureHandler appends reactions that run after the default ones
func WithFailureHandler(handlers ...FailureHandler) ClientOption {
	return func(c *Client) {
		c.handlers = append(c.handlers, handlers...)
	}
}

// WithoutDefaultReactions drops the built-in 401 and network reactions,
// leaving only handlers added with WithFailureHandler.
func WithoutDefaultReactions() ClientOption {
	return func(c *Client) {
		c.defaultReactions = false
	}
}

// BaseURL returns the prefix joined onto every request path
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BackendConfigured reports whether the backend URL came from configuration
// rather than the built-in fallback. Only set for clients built with FromBackend.
func (c *Client) BackendConfigured() bool {
	return c.configured
}

// Do sends req and returns the response. Any status >= 400, transport
// failure or request preparation failure comes back as an *Error, after the
// failure handlers have run.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	r := c.rc.R().SetContext(ctx)
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}
	if len(req.QueryParams) > 0 {
		r.SetQueryParams(req.QueryParams)
	}
	if req.Body != nil {
		body, err := encodeBody(req.Body)
		if err != nil {
			herr := &Error{Method: req.Method, URL: c.baseURL + req.Path, Cause: fmt.Errorf("encoding request body: %w", err)}
			c.react(ctx, herr)
			return nil, herr
		}
		r.SetBody(body)
	}

	resp, err := r.Execute(req.Method, req.Path)
	out := toResponse(resp)

	if herr := c.interceptResponse(req, resp, out, err); herr != nil {
		c.react(ctx, herr)
		return herr.Response, herr
	}

	if req.Result != nil && len(out.Body) > 0 {
		if err := json.Unmarshal(out.Body, req.Result); err != nil {
			herr := &Error{
				Method:     req.Method,
				URL:        requestURL(resp, c.baseURL+req.Path),
				StatusCode: out.StatusCode,
				Response:   out,
				Cause:      fmt.Errorf("decoding response: %w", err),
				Sent:       true,
			}
			c.react(ctx, herr)
			return out, herr
		}
	}

	return out, nil
}

// interceptRequest runs before every request is sent.
func (c *Client) interceptRequest(_ *resty.Client, r *resty.Request) error {
	if c.requestID && r.Header.Get(RequestIDHeader) == "" {
		r.SetHeader(RequestIDHeader, uuid.NewString())
	}

	if c.tokens == nil {
		return nil
	}
	tok, err := c.tokens.Get(r.Context())
	if errors.Is(err, token.ErrNotFound) {
		return nil
	}
	if err != nil {
		return &Error{
			Method: r.Method,
			URL:    c.baseURL + r.URL,
			Cause:  fmt.Errorf("reading stored token: %w", err),
		}
	}
	if tok != "" {
		r.SetHeader("Authorization", "Bearer "+tok)
	}
	return nil
}

// interceptResponse turns whatever came back from resty into nil or an *Error.
func (c *Client) interceptResponse(req *Request, resp *resty.Response, out *Response, err error) *Error {
	if err != nil {
		var herr *Error
		if errors.As(err, &herr) {
			return herr
		}
		herr = &Error{
			Method: req.Method,
			URL:    requestURL(resp, c.baseURL+req.Path),
			Cause:  err,
			Sent:   true,
		}
		// headers may have arrived before the transfer broke off
		if out != nil && !isTransportFailure(err) {
			herr.StatusCode = out.StatusCode
			herr.Response = out
		}
		return herr
	}

	if out == nil {
		return &Error{Method: req.Method, URL: c.baseURL + req.Path, Cause: errors.New("nil response"), Sent: true}
	}
	if out.StatusCode >= 400 {
		return &Error{
			Method:     req.Method,
			URL:        requestURL(resp, c.baseURL+req.Path),
			StatusCode: out.StatusCode,
			Response:   out,
			Cause:      errors.New(http.StatusText(out.StatusCode)),
			Sent:       true,
		}
	}
	return nil
}

func (c *Client) react(ctx context.Context, err *Error) {
	kind := Classify(err)
	for _, h := range c.handlers {
		if h != nil {
			h(ctx, kind, err)
		}
	}
}

func (c *Client) Get(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:  http.MethodGet,
		Path:    path,
		Headers: headers,
	})
}

func (c *Client) Post(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:  http.MethodPost,
		Path:    path,
		Body:    body,
		Headers: headers,
	})
}

func (c *Client) Put(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:  http.MethodPut,
		Path:    path,
		Body:    body,
		Headers: headers,
	})
}

func (c *Client) Patch(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:  http.MethodPatch,
		Path:    path,
		Body:    body,
		Headers: headers,
	})
}

func (c *Client) Delete(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:  http.MethodDelete,
		Path:    path,
		Headers: headers,
	})
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	case json.RawMessage:
		return b, nil
	default:
		return json.Marshal(body)
	}
}

func requestURL(resp *resty.Response, fallback string) string {
	if resp != nil && resp.Request != nil && resp.Request.URL != "" {
		return resp.Request.URL
	}
	return fallback
}

// restyLogger keeps resty's own chatter at debug level so the client's
// diagnostics stay the only error-level lines.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), slog.String("component", "resty"))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), slog.String("component", "resty"))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), slog.String("component", "resty"))
}

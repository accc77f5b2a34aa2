package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abdul-hamid-achik/studyhub/packages/auth/token"
	"github.com/abdul-hamid-achik/studyhub/packages/http"
)

// Backend routes
const (
	PathHealth      = "/"
	PathSignIn      = "/signin"
	PathSignUp      = "/signup"
	PathUsers       = "/user/"
	PathProfile     = "/user/profile"
	PathGroups      = "/groups/"
	PathMyGroups    = "/groups/my"
	PathCreateGroup = "/groups/create"
)

type Client struct {
	http   *http.Client
	tokens token.Store
	logger *slog.Logger
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds an API client. tokens must be the same store the http client
// reads bearer tokens from, so that SignIn takes effect on the next call.
func New(hc *http.Client, tokens token.Store, opts ...Option) *Client {
	c := &Client{
		http:   hc,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTP returns the underlying facade
func (c *Client) HTTP() *http.Client {
	return c.http
}

// Health calls the landing route and returns its greeting.
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.http.Get(ctx, PathHealth, nil)
	if err != nil {
		return "", err
	}
	c.logger.Debug("Health",
		slog.String("component", "api.Client"),
		slog.Int("status", resp.StatusCode),
		slog.String("content_type", resp.ContentType()),
		slog.Int64("duration_ms", resp.DurationMs()),
	)
	return newBody(resp).Message(), nil
}

// SignIn exchanges credentials for a token and stores it.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	resp, err := c.http.Post(ctx, PathSignIn, Credentials{Email: email, Password: password}, nil)
	if err != nil {
		return "", err
	}
	return c.storeToken(ctx, "POST", PathSignIn, resp)
}

// SignUp registers an account and stores the token issued for it.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (string, error) {
	resp, err := c.http.Post(ctx, PathSignUp, Registration{Name: name, Email: email, Password: password}, nil)
	if err != nil {
		return "", err
	}
	return c.storeToken(ctx, "POST", PathSignUp, resp)
}

// SignOut forgets the stored token. Signing out twice is fine.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.tokens.Delete(ctx); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}

// SignedIn reports whether a token is stored.
func (c *Client) SignedIn(ctx context.Context) (bool, error) {
	tok, err := c.tokens.Get(ctx)
	if errors.Is(err, token.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tok != "", nil
}

func (c *Client) storeToken(ctx context.Context, method, path string, resp *http.Response) (string, error) {
	b := newBody(resp)
	tok := b.String("token")
	if b.Has("error") || tok == "" {
		msg := b.Message()
		if msg == "" {
			msg = "no token in response"
		}
		return "", &APIError{Method: method, Path: path, Message: msg}
	}

	if err := c.tokens.Set(ctx, tok); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}
	c.logger.Debug("Stored token",
		slog.String("component", "api.Client"),
		slog.String("path", path),
	)
	return b.Message(), nil
}

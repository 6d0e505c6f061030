package apiclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/cache"
)

type tokenKey struct{}

// WithToken returns a context whose backend calls carry token as a bearer
// credential.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token attached by WithToken.
func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey{}).(string)
	return s
}

type roleKey struct{}

// WithRole records the caller's role so shared reads can be cached per
// role instead of per token.
func WithRole(ctx context.Context, role string) context.Context {
	if role == "" {
		return ctx
	}
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFrom returns the role attached by WithRole.
func RoleFrom(ctx context.Context) string {
	s, _ := ctx.Value(roleKey{}).(string)
	return s
}

// maxResponseBytes caps how much of a backend body is read.
const maxResponseBytes = 8 << 20

// Client performs calls against the cinema backend API.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.TagCache
	logger  echo.Logger
}

// New builds a Client.  tc may be nil, in which case nothing is cached.
// A zero timeout leaves the http.Client without a deadline.
func New(baseURL string, timeout time.Duration, tc *cache.TagCache, logger echo.Logger) *Client {
	if logger == nil {
		panic("nil logger passed to apiclient.New")
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   tc,
		logger:  logger,
	}
}

// Cache returns the tag cache the client writes through, or nil.
func (c *Client) Cache() *cache.TagCache { return c.cache }

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// Do performs one call to ep.  Successful GETs are served from and stored
// into the tag cache; successful calls drop the tags ep invalidates.
// Failures are always *APIError.  Nothing is retried.
func (c *Client) Do(ctx context.Context, ep Endpoint, call Call) error {
	path := expand(ep.Path, call.Params)
	switch {
	case call.RawQuery != "":
		path += "?" + call.RawQuery
	case len(call.Query) > 0:
		path += "?" + call.Query.Encode()
	}
	token := TokenFrom(ctx)

	cacheable := c.cache != nil && ep.Method == http.MethodGet && !ep.NoCache
	var key string
	if cacheable {
		key = cacheKey(ep, path, token, RoleFrom(ctx))
		if body, ok := c.cache.Get(ctx, key); ok {
			return decodeData(ep.Name, http.StatusOK, body, call.Out)
		}
	}

	var reqBody io.Reader
	if call.Body != nil {
		b, err := json.Marshal(call.Body)
		if err != nil {
			return &APIError{Endpoint: ep.Name, Message: "encode request", Err: err}
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, ep.Method, c.baseURL+path, reqBody)
	if err != nil {
		return &APIError{Endpoint: ep.Name, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warnf("apiclient: %s %s: %v", ep.Method, path, err)
		return &APIError{Endpoint: ep.Name, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &APIError{Endpoint: ep.Name, Err: fmt.Errorf("read body: %w", err)}
	}
	c.logger.Debugf("apiclient: %s %s -> %d (%s)", ep.Method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(ep.Name, resp.StatusCode, body)
	}
	if err := decodeData(ep.Name, resp.StatusCode, body, call.Out); err != nil {
		return err
	}
	if cacheable {
		c.cache.Set(ctx, key, body, tags(ep.Provides, call.Params))
	}
	if c.cache != nil {
		if inv := tags(ep.Invalidates, call.Params); len(inv) > 0 {
			c.cache.Invalidate(ctx, inv...)
		}
	}
	return nil
}

// cacheKey derives the cache key.  Anonymous reads share one key.  A
// signed-in caller of a shared endpoint shares entries with callers of the
// same role, since the backend may show admins unpublished rows.  Everything
// else is keyed per token so one user's data is never served to another.
func cacheKey(ep Endpoint, path, token, role string) string {
	key := ep.Method + " " + path
	switch {
	case token == "":
		return key
	case ep.Shared && role != "":
		return key + " role=" + role
	}
	sum := sha256.Sum256([]byte(token))
	return key + " @" + hex.EncodeToString(sum[:8])
}

// decodeData unwraps the {"data": ...} envelope into out.  Bodies without
// a data member are decoded whole.
func decodeData(name string, status int, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		body = env.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Endpoint: name, Status: status, Message: "invalid response body", Body: body, Err: err}
	}
	return nil
}

func failure(name string, status int, body []byte) error {
	ae := &APIError{Endpoint: name, Status: status, Body: body}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		ae.Decoded = true
		ae.Message = env.Message
		if ae.Message == "" {
			ae.Message = env.Error
		}
	}
	return ae
}

// Package transport provides the HTTP client shared by the remote API
// adapters: authentication, JSON requests, and status checking.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/netorganizer/netorg/pkg/constants"
	"github.com/netorganizer/netorg/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client performs authenticated requests against one API.
type Client struct {
	http    *http.Client
	auth    Authenticator
	service string
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification, for
// appliances with self-signed certificates.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		if !skip {
			return
		}
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed appliances
		c.http.Transport = tr
	}
}

// WithCookieJar keeps cookies between requests.
func WithCookieJar() Option {
	return func(c *Client) {
		jar, _ := cookiejar.New(nil)
		c.http.Jar = jar
	}
}

// New creates a client for service rooted at baseURL.
func New(service, baseURL string, auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    auth,
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Jar returns the cookie jar, or nil if cookies are not kept.
func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

// SetAuthenticator replaces the authenticator.
func (c *Client) SetAuthenticator(auth Authenticator) {
	c.auth = auth
}

// URL resolves path against the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Do sends a request and returns the response body. Any non-2xx status is
// returned as an *errors.APIError.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, errors.WrapResource("create", "request "+method+" "+path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.auth.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WrapResource(strings.ToLower(method), path, errors.ErrCanceled)
		}
		return nil, &errors.APIError{Service: c.service, Endpoint: path, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errors.APIError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    strings.TrimSpace(string(data)),
		}
	}
	return data, nil
}

// GetJSON fetches path and parses the JSON body.
func (c *Client) GetJSON(ctx context.Context, path string) (gjson.Result, error) {
	data, err := c.Do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return gjson.Result{}, err
	}
	return parse(data)
}

// SendJSON sends payload encoded as JSON and parses the JSON reply. An
// empty reply yields an empty result.
func (c *Client) SendJSON(ctx context.Context, method, path string, payload any) (gjson.Result, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return gjson.Result{}, errors.WrapParse("json", "", err)
		}
		body = bytes.NewReader(buf)
	}
	data, err := c.Do(ctx, method, path, body, "application/json")
	if err != nil {
		return gjson.Result{}, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return gjson.Result{}, nil
	}
	return parse(data)
}

// PostForm posts form values and returns the raw reply.
func (c *Client) PostForm(ctx context.Context, path string, values url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func parse(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errors.NewParseError("json", "", "invalid JSON response", nil)
	}
	return gjson.ParseBytes(data), nil
}

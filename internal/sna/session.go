// Package sna talks to a Secure Network Analytics manager: session
// handling and the host group (tag) API.
package sna

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/netorganizer/netorg/internal/transport"
	"github.com/netorganizer/netorg/pkg/constants"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/logging"
)

const service = "sna"

// Session is an authenticated manager session bound to one tenant.
type Session struct {
	api      *transport.Client
	host     string
	tenantID string
}

type sessionOptions struct {
	insecure   bool
	httpClient *http.Client
}

// Option configures a Session.
type Option func(*sessionOptions)

// WithInsecureSkipVerify accepts self-signed manager certificates.
func WithInsecureSkipVerify(insecure bool) Option {
	return func(o *sessionOptions) {
		o.insecure = insecure
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *sessionOptions) {
		o.httpClient = hc
	}
}

// NewSession creates a session for the manager at host. host may carry a
// scheme; https is assumed otherwise.
func NewSession(host string, opts ...Option) *Session {
	o := &sessionOptions{}
	for _, opt := range opts {
		opt(o)
	}

	baseURL := host
	if !strings.Contains(host, "://") {
		baseURL = "https://" + host
	}

	var topts []transport.Option
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	}
	topts = append(topts, transport.WithInsecureSkipVerify(o.insecure), transport.WithCookieJar())

	api := transport.New(service, baseURL, nil, topts...)
	api.SetAuthenticator(&transport.CookieHeaderAuth{
		Cookie: constants.XSRFCookie,
		Header: constants.XSRFHeader,
		Jar:    api.Jar(),
	})
	return &Session{api: api, host: host}
}

// Host returns the manager host.
func (s *Session) Host() string {
	return s.host
}

// TenantID returns the tenant discovered at login.
func (s *Session) TenantID() string {
	return s.tenantID
}

// Login authenticates and discovers the tenant id.
func (s *Session) Login(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	if _, err := s.api.PostForm(ctx, "token/v2/authenticate", form); err != nil {
		return errors.NewAuthenticationError(service, "password", "login to "+s.host+" failed", err)
	}

	res, err := s.api.GetJSON(ctx, "sw-reporting/v1/tenants/")
	if err != nil {
		return errors.WrapResource("query", "tenants", err)
	}
	id := res.Get("data.0.id")
	if !id.Exists() {
		return errors.NewNotFoundError("tenant", "")
	}
	s.tenantID = id.String()

	logging.Ctx(ctx).Debug().Str("host", s.host).Str("tenant_id", s.tenantID).Msg("Logged in")
	return nil
}

// Logout ends the session.
func (s *Session) Logout(ctx context.Context) error {
	if _, err := s.api.Do(ctx, http.MethodDelete, "token", nil, ""); err != nil {
		return errors.WrapResource("delete", "session token", err)
	}
	s.tenantID = ""
	return nil
}

func (s *Session) tagsPath(elem ...string) string {
	p := "smc-configuration/rest/v1/tenants/" + url.PathEscape(s.tenantID) + "/tags"
	for _, e := range elem {
		p += "/" + url.PathEscape(e)
	}
	return p
}

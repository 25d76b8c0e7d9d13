package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// HeaderAuth implements custom header authentication, such as the
// Meraki Dashboard API key header.
type HeaderAuth struct {
	Header string
	Value  string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request) {
	if a.Value == "" {
		return
	}
	req.Header.Set(a.Header, a.Value)
}

// CookieHeaderAuth copies a cookie issued by the server into a request
// header, the double-submit scheme used for XSRF protection.
type CookieHeaderAuth struct {
	Cookie string
	Header string
	Jar    http.CookieJar
}

// Apply implements the Authenticator interface for CookieHeaderAuth.
func (a *CookieHeaderAuth) Apply(req *http.Request) {
	if a.Jar == nil || req.URL == nil {
		return
	}
	for _, c := range a.Jar.Cookies(req.URL) {
		if c.Name == a.Cookie {
			req.Header.Set(a.Header, c.Value)
			return
		}
	}
}

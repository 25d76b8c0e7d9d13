package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netorganizer/netorg/pkg/errors"
)

func TestClientGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/organizations", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, `[{"id":"1","name":"Home"}]`)
	}))
	defer srv.Close()

	c := New("test", srv.URL+"/api/v1/", &HeaderAuth{Header: "X-Key", Value: "key"})
	res, err := c.GetJSON(context.Background(), "/organizations")
	require.NoError(t, err)
	assert.Equal(t, "Home", res.Get("0.name").String())
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, errors.ErrAuthentication},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusTooManyRequests, errors.ErrRateLimited},
		{http.StatusBadGateway, errors.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, "nope")
			}))
			defer srv.Close()

			c := New("test", srv.URL, nil)
			_, err := c.GetJSON(context.Background(), "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestClientInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))
	defer srv.Close()

	_, err := New("test", srv.URL, nil).GetJSON(context.Background(), "x")
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestClientSendJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	res, err := New("test", srv.URL, nil).SendJSON(context.Background(), http.MethodPut, "thing", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.False(t, res.Exists())
}

func TestClientCookiesAndForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "admin", r.PostForm.Get("username"))
			http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "tok", Path: "/"})
		case "/data":
			assert.Equal(t, "tok", r.Header.Get("X-XSRF-TOKEN"))
			_, _ = io.WriteString(w, `{}`)
		}
	}))
	defer srv.Close()

	c := New("test", srv.URL, nil, WithCookieJar())
	require.NotNil(t, c.Jar())
	c.SetAuthenticator(&CookieHeaderAuth{Cookie: "XSRF-TOKEN", Header: "X-XSRF-TOKEN", Jar: c.Jar()})

	_, err := c.PostForm(context.Background(), "login", url.Values{"username": {"admin"}})
	require.NoError(t, err)
	_, err = c.GetJSON(context.Background(), "data")
	require.NoError(t, err)
}

func TestClientCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New("test", srv.URL, nil).GetJSON(ctx, "x")
	assert.True(t, errors.IsCanceled(err))
}

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mico/internal/api"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...func(*Options)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	o := Options{BaseURL: server.URL}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := New(o)
	require.NoError(t, err)
	return c
}

func TestClient_GetDecodesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/services/foo/1.0.0", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"shortName":"foo","version":"1.0.0"}`)
	})

	var svc api.Service
	require.NoError(t, c.Get(context.Background(), api.Path("services/foo/1.0.0"), &svc))
	assert.Equal(t, "foo", svc.ShortName)
}

func TestClient_BearerToken(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{}`)
	}, func(o *Options) {
		o.TokenSource = StaticTokenSource("from-source")
	})

	ctx := context.Background()
	require.NoError(t, c.Get(ctx, api.Path("services"), nil))
	require.NoError(t, c.Get(ctx, api.Path("services"), nil, WithToken("per-call")))

	assert.Equal(t, []string{"Bearer from-source", "Bearer per-call"}, seen)
}

func TestClient_PostSerializesJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body api.Service
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "foo", body.ShortName)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"shortName":"foo","version":"1.0.0","_links":{"self":{"href":"http://x/services/foo/1.0.0"}}}`)
	})

	var created api.Service
	res, err := c.Post(context.Background(), api.Path("services/"), api.Service{ShortName: "foo", Version: "1.0.0"}, &created)
	require.NoError(t, err)
	assert.Equal(t, Content, res)
	self, ok := created.Links.Self()
	require.True(t, ok)
	assert.Equal(t, "http://x/services/foo/1.0.0", self.Href)
}

func TestClient_RawBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, "plain text", string(data))
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	})

	res, err := c.Post(context.Background(), api.Path("upload"), "plain text", nil, WithRawBody())
	require.NoError(t, err)
	assert.Equal(t, NoContent, res)

	_, err = c.Post(context.Background(), api.Path("upload"), 42, nil, WithRawBody())
	assert.Error(t, err)
}

func TestClient_DeleteEmptyBodyIsNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/services/foo/1.0.0", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	var out map[string]any
	res, err := c.Delete(context.Background(), api.Path("services/foo/1.0.0"), &out)
	require.NoError(t, err)
	assert.Equal(t, NoContent, res)
	assert.Nil(t, out)
}

func TestClient_GetEmptyBodyFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	err := c.Get(context.Background(), api.Path("services"), &map[string]any{})
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestClient_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"service not found"}`)
	})

	err := c.Get(context.Background(), api.Path("services/missing/1.0.0"), nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.Contains(t, err.Error(), "service not found")
}

func TestClient_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c, err := New(Options{BaseURL: base})
	require.NoError(t, err)

	err = c.Get(context.Background(), api.Path("services"), nil)
	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, ConnectionErrorNetwork, connErr.Type)
}

func TestClient_UnresolvableRef(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})

	err := c.Get(context.Background(), api.ObjectRef(api.Service{}), nil)
	assert.ErrorIs(t, err, api.ErrNoSelfLink)
}

func TestStaticTokenSource_Empty(t *testing.T) {
	assert.Nil(t, StaticTokenSource(" "))
}

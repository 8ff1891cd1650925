package transport

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mico/internal/api"
)

func TestJoinBase(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		path     string
		expected string
	}{
		{name: "relative path gets trailing slash", base: "http://localhost:8080", path: "services", expected: "http://localhost:8080/services/"},
		{name: "base trailing slash trimmed", base: "http://localhost:8080/", path: "services", expected: "http://localhost:8080/services/"},
		{name: "leading slash kept single", base: "http://localhost:8080", path: "/applications", expected: "http://localhost:8080/applications/"},
		{name: "existing trailing slash", base: "http://localhost:8080", path: "services/foo/", expected: "http://localhost:8080/services/foo/"},
		{name: "dotted last segment", base: "http://localhost:8080", path: "services/foo/1.0.0", expected: "http://localhost:8080/services/foo/1.0.0"},
		{name: "dot before last slash", base: "http://localhost:8080", path: "services/foo/1.0.0/dependees", expected: "http://localhost:8080/services/foo/1.0.0/dependees/"},
		{name: "docs endpoint", base: "http://localhost:8080", path: "v2/api-docs", expected: "http://localhost:8080/v2/api-docs"},
		{name: "base with prefix", base: "http://mico.example/api", path: "services", expected: "http://mico.example/api/services/"},
		{name: "absolute url untouched", base: "http://localhost:8080", path: "https://other/services/foo", expected: "https://other/services/foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinBase(tt.base, tt.path))
		})
	}
}

func TestClient_ResolveRefVariants(t *testing.T) {
	c, err := New(Options{BaseURL: "http://localhost:8080"})
	require.NoError(t, err)

	self := api.Link{Href: "http://localhost:8080/services/foo/1.0.0"}
	svc := api.Service{Resource: api.Resource{Links: api.Links{api.SelfRel: self}}}

	for _, ref := range []api.Ref{
		api.Path("services/foo/1.0.0"),
		api.LinkRef(self),
		api.LinksRef(svc.Links),
		api.ObjectRef(svc),
	} {
		got, err := c.Resolve(ref)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/services/foo/1.0.0", got, "kind %s", ref.Kind())
	}
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "http://x/a/", withQuery("http://x/a/", nil))
	assert.Equal(t, "http://x/a/?page=2", withQuery("http://x/a/", url.Values{"page": {"2"}}))
	assert.Equal(t, "http://x/a/?b=1&page=2", withQuery("http://x/a/?b=1", url.Values{"page": {"2"}}))
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "ftp://mico"})
	assert.Error(t, err)

	c, err := New(Options{BaseURL: "https://mico.example/"})
	require.NoError(t, err)
	assert.Equal(t, "https://mico.example", c.BaseURL())
}

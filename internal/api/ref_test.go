package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_Resolve(t *testing.T) {
	self := Link{Href: "http://localhost:8080/services/foo/1.0.0"}
	svc := Service{
		Resource:  Resource{Links: Links{SelfRel: self}},
		ShortName: "foo",
		Version:   "1.0.0",
	}

	tests := []struct {
		name     string
		ref      Ref
		kind     RefKind
		expected string
	}{
		{name: "path", ref: Path("services/foo/1.0.0"), kind: RefPath, expected: "services/foo/1.0.0"},
		{name: "formatted path", ref: Pathf("services/%s/%s", "foo", "1.0.0"), kind: RefPath, expected: "services/foo/1.0.0"},
		{name: "link", ref: LinkRef(self), kind: RefLink, expected: self.Href},
		{name: "links", ref: LinksRef(svc.Links), kind: RefLinks, expected: self.Href},
		{name: "object", ref: ObjectRef(svc), kind: RefObject, expected: self.Href},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.ref.Kind())
			got, err := tt.ref.Resolve()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRef_ResolveWithoutSelfLink(t *testing.T) {
	tests := []struct {
		name string
		ref  Ref
	}{
		{name: "empty link", ref: LinkRef(Link{})},
		{name: "links without self", ref: LinksRef(Links{"deploy": {Href: "x"}})},
		{name: "nil links", ref: LinksRef(nil)},
		{name: "object without links", ref: ObjectRef(Service{ShortName: "foo"})},
		{name: "nil object", ref: ObjectRef(nil)},
		{name: "typed nil service", ref: ObjectRef((*Service)(nil))},
		{name: "typed nil application", ref: ObjectRef((*Application)(nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = tt.ref.Resolve() })
			assert.ErrorIs(t, err, ErrNoSelfLink)
		})
	}
}

func TestEnvelope_DecodeList(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectedKey string
		expected    []string
	}{
		{
			name:        "primary key",
			body:        `{"_embedded":{"serviceList":[{"shortName":"a","version":"1"}]}}`,
			expectedKey: ServiceListKey,
			expected:    []string{"a"},
		},
		{
			name:        "fallback key",
			body:        `{"_embedded":{"applicationList":[{"shortName":"b","version":"1"}]}}`,
			expectedKey: ApplicationListKey,
			expected:    []string{"b"},
		},
		{
			name:        "missing embedded",
			body:        `{"_links":{"self":{"href":"http://x/services"}}}`,
			expectedKey: "",
			expected:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			require.NoError(t, json.Unmarshal([]byte(tt.body), &env))

			var services []Service
			key, err := env.DecodeList(&services, ServiceListKey, ApplicationListKey)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedKey, key)

			names := []string{}
			for _, s := range services {
				names = append(names, s.ShortName)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestService_KeyAndTitle(t *testing.T) {
	svc := Service{ShortName: "auth", Version: "1.2.0"}
	assert.Equal(t, "auth-1.2.0", svc.Key())
	assert.Equal(t, "auth", svc.Title())

	svc.Name = "Auth Service"
	assert.Equal(t, "Auth Service", svc.Title())
	assert.Equal(t, "auth@1.2.0", svc.String())
}

func TestApplication_DecodesLinksAndServices(t *testing.T) {
	body := `{
		"shortName": "shop",
		"version": "0.1.0",
		"services": [{"shortName": "cart", "version": "1.0.0"}],
		"_links": {"self": {"href": "http://localhost:8080/applications/shop/0.1.0"}}
	}`

	var app Application
	require.NoError(t, json.Unmarshal([]byte(body), &app))

	self, ok := app.Links.Self()
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8080/applications/shop/0.1.0", self.Href)
	require.Len(t, app.Services, 1)
	assert.Equal(t, "cart-1.0.0", app.Services[0].Key())
}

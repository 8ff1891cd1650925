package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mico/internal/api"
	"mico/internal/cache"
	"mico/internal/transport"
)

// backend is a scripted MICO API that records every request it receives.
type backend struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []string
}

func newBackend() *backend {
	return &backend{routes: make(map[string]http.HandlerFunc)}
}

func (b *backend) handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

func (b *backend) json(method, path string, status int, body string) {
	b.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.requests = append(b.requests, key)
	h, ok := b.routes[key]
	b.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (b *backend) received() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func newTestClient(t *testing.T, b *backend) (*Client, *cache.Registry) {
	t.Helper()
	server := httptest.NewServer(b)
	t.Cleanup(server.Close)

	tr, err := transport.New(transport.Options{BaseURL: server.URL})
	require.NoError(t, err)

	reg := cache.NewRegistry(cache.WithBaseURL(server.URL))
	t.Cleanup(reg.Close)

	c := New(tr, reg)
	t.Cleanup(c.Wait)
	return c, reg
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func selfLinked(r *http.Request, path, body string) string {
	return fmt.Sprintf(`{"_links":{"self":{"href":"http://%s/%s"}},%s}`, r.Host, path, body)
}

func TestClient_Services(t *testing.T) {
	b := newBackend()
	b.json(http.MethodGet, "/services/", http.StatusOK,
		`{"_embedded":{"serviceList":[{"shortName":"foo","version":"1.0.0"},{"shortName":"bar","version":"0.1.0"}]}}`)
	c, _ := newTestClient(t, b)
	ctx := testContext(t)

	services, err := c.Services(ctx).Once(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "foo-1.0.0", services[0].Key())
}

func TestClient_EmptyCollection(t *testing.T) {
	b := newBackend()
	b.json(http.MethodGet, "/applications/", http.StatusOK, `{"_links":{"self":{"href":"x"}}}`)
	c, _ := newTestClient(t, b)
	ctx := testContext(t)

	apps, err := c.Applications(ctx).Once(ctx)
	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Empty(t, apps)
}

func TestClient_ServiceVersionsFallsBackToApplicationList(t *testing.T) {
	b := newBackend()
	b.json(http.MethodGet, "/services/foo/", http.StatusOK,
		`{"_embedded":{"applicationList":[{"shortName":"foo","version":"1.0.0"},{"shortName":"foo","version":"2.0.0"}]}}`)
	c, _ := newTestClient(t, b)
	ctx := testContext(t)

	versions, err := c.ServiceVersions(ctx, "foo").Once(ctx)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "2.0.0", versions[1].Version)
}

func TestClient_CachedValueThenFresh(t *testing.T) {
	b := newBackend()
	b.json(http.MethodGet, "/services/foo/1.0.0", http.StatusOK, `{"shortName":"foo","version":"1.0.0","name":"fresh"}`)
	c, reg := newTestClient(t, b)
	ctx := testContext(t)

	reg.Stream("services/foo/1.0.0").Publish(api.Service{ShortName: "foo", Version: "1.0.0", Name: "stale"})

	w := c.Service(ctx, "foo", "1.0.0")
	defer w.Close()

	first, err := w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stale", first.Name)

	second, err := w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", second.Name)
}

func TestClient_ServiceSubresources(t *testing.T) {
	b := newBackend()
	b.json(http.MethodGet, "/services/foo/1.0.0/dependees/", http.StatusOK,
		`{"_embedded":{"serviceList":[{"shortName":"db","version":"5.0.0"}]}}`)
	b.json(http.MethodGet, "/services/foo/1.0.0/dependers/", http.StatusOK,
		`{"_embedded":{"micoServiceResponseDTOList":[{"shortName":"web","version":"1.2.0"}]}}`)
	b.json(http.MethodGet, "/services/foo/1.0.0/interfaces/", http.StatusOK,
		`{"_embedded":{"serviceInterfaceList":[{"serviceInterfaceName":"http","ports":[{"number":80,"type":"TCP","targetPort":8080}]}]}}`)
	c, _ := newTestClient(t, b)
	ctx := testContext(t)

	dependees, err := c.ServiceDependees(ctx, "foo", "1.0.0").Once(ctx)
	require.NoError(t, err)
	require.Len(t, dependees, 1)
	assert.Equal(t, "db", dependees[0].ShortName)

	dependers, err := c.ServiceDependers(ctx, "foo", "1.0.0").Once(ctx)
	require.NoError(t, err)
	require.Len(t, dependers, 1)
	assert.Equal(t, "web", dependers[0].ShortName)

	interfaces, err := c.ServiceInterfaces(ctx, "foo", "1.0.0").Once(ctx)
	require.NoError(t, err)
	require.Len(t, interfaces, 1)
	assert.Equal(t, 8080, interfaces[0].Ports[0].TargetPort)
}

func TestClient_ApplicationAndStatus(t *testing.T) {
	b := newBackend()
	b.json(http.MethodGet, "/applications/shop/1.0.0", http.StatusOK,
		`{"shortName":"shop","version":"1.0.0","services":[{"shortName":"foo","version":"1.0.0"}]}`)
	b.json(http.MethodGet, "/applications/shop/1.0.0/status/", http.StatusOK,
		`{"totalNumberOfMicoServices":1,"totalNumberOfPods":3}`)
	c, _ := newTestClient(t, b)
	ctx := testContext(t)

	app, err := c.Application(ctx, "shop", "1.0.0").Once(ctx)
	require.NoError(t, err)
	require.Len(t, app.Services, 1)

	status, err := c.ApplicationStatus(ctx, "shop", "1.0.0").Once(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalNumberOfPods)
}

func TestClient_ModelDefinitions(t *testing.T) {
	b := newBackend()
	b.json(http.MethodGet, "/v2/api-docs", http.StatusOK,
		`{"swagger":"2.0","definitions":{"Service":{"type":"object"}}}`)
	c, reg := newTestClient(t, b)
	ctx := testContext(t)

	defs, err := c.ModelDefinitions(ctx).Once(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object"}`, string(defs["Service"]))

	_, ok := reg.Lookup("models")
	assert.True(t, ok)
}

func TestClient_FetchErrorReachesWatch(t *testing.T) {
	b := newBackend()
	c, reg := newTestClient(t, b)
	ctx := testContext(t)

	_, err := c.Service(ctx, "missing", "1.0.0").Once(ctx)
	require.Error(t, err)
	assert.True(t, transport.IsNotFound(err))

	s, ok := reg.Lookup("services/missing/1.0.0")
	require.True(t, ok)
	_, set := s.Value()
	assert.False(t, set)
}

func TestClient_ClosedWatchCancelsFetch(t *testing.T) {
	b := newBackend()
	started := make(chan struct{})
	b.handle(http.MethodGet, "/services/foo/1.0.0", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})
	c, reg := newTestClient(t, b)
	ctx := testContext(t)

	w := c.Service(ctx, "foo", "1.0.0")
	<-started
	w.Close()
	c.Wait()

	s, ok := reg.Lookup("services/foo/1.0.0")
	require.True(t, ok)
	_, set := s.Value()
	assert.False(t, set, "a cancelled fetch must not publish")

	_, err := w.Next(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClient_PostServicePublishesAndRefreshesLists(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodPost, "/services/", func(w http.ResponseWriter, r *http.Request) {
		var in api.Service
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, selfLinked(r, "services/foo/1.0.0",
			fmt.Sprintf(`"shortName":%q,"version":%q`, in.ShortName, in.Version)))
	})
	b.json(http.MethodGet, "/services/", http.StatusOK,
		`{"_embedded":{"serviceList":[{"shortName":"foo","version":"1.0.0"}]}}`)
	b.json(http.MethodGet, "/services/foo/", http.StatusOK,
		`{"_embedded":{"serviceList":[{"shortName":"foo","version":"1.0.0"}]}}`)
	c, reg := newTestClient(t, b)
	ctx := testContext(t)

	w, err := c.PostService(ctx, &api.Service{ShortName: "foo", Version: "1.0.0"})
	require.NoError(t, err)
	created, err := w.Once(ctx)
	require.NoError(t, err)
	assert.Equal(t, "foo", created.ShortName)

	c.Wait()
	assert.ElementsMatch(t, []string{"POST /services/", "GET /services/", "GET /services/foo/"}, b.received())

	_, ok := reg.Lookup("services/foo/1.0.0")
	assert.True(t, ok, "created resource is cached under its self link")
	list, ok := reg.Lookup("services")
	require.True(t, ok)
	v, set := list.Value()
	require.True(t, set)
	assert.Len(t, v.([]api.Service), 1)
}

func TestClient_WriteWithoutData(t *testing.T) {
	b := newBackend()
	b.json(http.MethodPost, "/services/", http.StatusOK, ``)
	c, _ := newTestClient(t, b)
	ctx := testContext(t)

	_, err := c.PostService(ctx, nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = c.PostApplication(ctx, nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = c.PostService(ctx, &api.Service{ShortName: "foo", Version: "1.0.0"})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestClient_DeleteServiceInvalidates(t *testing.T) {
	b := newBackend()
	b.json(http.MethodDelete, "/services/foo/1.0.0", http.StatusOK, ``)
	c, reg := newTestClient(t, b)
	ctx := testContext(t)

	reg.Stream("services/foo/1.0.0").Publish(api.Service{ShortName: "foo", Version: "1.0.0"})

	res, err := c.DeleteService(ctx, "foo", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, transport.NoContent, res)

	s, ok := reg.Lookup("services/foo/1.0.0")
	require.True(t, ok)
	_, set := s.Value()
	assert.False(t, set)
}

func TestClient_PromoteApplication(t *testing.T) {
	b := newBackend()
	b.handle(http.MethodPost, "/applications/shop/1.0.0/promote/", func(w http.ResponseWriter, r *http.Request) {
		var req api.VersionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "1.1.0", req.Version)
		_, _ = io.WriteString(w, selfLinked(r, "applications/shop/1.1.0", `"shortName":"shop","version":"1.1.0"`))
	})
	c, reg := newTestClient(t, b)
	ctx := testContext(t)

	w, err := c.PromoteApplication(ctx, "shop", "1.0.0", "1.1.0")
	require.NoError(t, err)
	app, err := w.Once(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", app.Version)

	_, ok := reg.Lookup("applications/shop/1.1.0")
	assert.True(t, ok)
}

func TestClient_ChangeServiceVersion(t *testing.T) {
	b := newBackend()
	b.json(http.MethodDelete, "/applications/shop/1.0.0/services/foo/", http.StatusOK, ``)
	b.json(http.MethodPost, "/applications/shop/1.0.0/services/foo/2.0.0", http.StatusOK, ``)
	b.json(http.MethodGet, "/applications/shop/1.0.0", http.StatusOK, `{"shortName":"shop","version":"1.0.0"}`)
	c, _ := newTestClient(t, b)
	ctx := testContext(t)

	err := c.ChangeServiceVersion(ctx, "shop", "1.0.0",
		api.Service{ShortName: "foo", Version: "1.0.0"},
		api.Service{ShortName: "foo", Version: "2.0.0"})
	require.NoError(t, err)
	c.Wait()

	var writes []string
	for _, r := range b.received() {
		if r[:3] != "GET" {
			writes = append(writes, r)
		}
	}
	assert.Equal(t, []string{
		"DELETE /applications/shop/1.0.0/services/foo/",
		"POST /applications/shop/1.0.0/services/foo/2.0.0",
	}, writes)
}

func TestClient_ChangeServiceVersionPartialFailure(t *testing.T) {
	b := newBackend()
	b.json(http.MethodDelete, "/applications/shop/1.0.0/services/foo/", http.StatusOK, ``)
	b.json(http.MethodPost, "/applications/shop/1.0.0/services/foo/2.0.0", http.StatusConflict, `{"message":"conflict"}`)
	c, _ := newTestClient(t, b)
	ctx := testContext(t)

	err := c.ChangeServiceVersion(ctx, "shop", "1.0.0",
		api.Service{ShortName: "foo", Version: "1.0.0"},
		api.Service{ShortName: "foo", Version: "2.0.0"})
	require.Error(t, err)

	var pw *PartialWriteError
	require.True(t, errors.As(err, &pw))
	assert.Equal(t, "add", pw.Step)
	assert.Equal(t, []string{"remove"}, pw.Completed)
	assert.True(t, transport.IsConflict(err))
	assert.True(t, IsPartialWrite(err))
}

func TestClient_ChangeServiceVersionRemoveFailureStops(t *testing.T) {
	b := newBackend()
	b.json(http.MethodDelete, "/applications/shop/1.0.0/services/foo/", http.StatusInternalServerError, `{}`)
	c, _ := newTestClient(t, b)
	ctx := testContext(t)

	err := c.ChangeServiceVersion(ctx, "shop", "1.0.0",
		api.Service{ShortName: "foo", Version: "1.0.0"},
		api.Service{ShortName: "foo", Version: "2.0.0"})
	require.Error(t, err)
	assert.False(t, IsPartialWrite(err))
	assert.Equal(t, []string{"DELETE /applications/shop/1.0.0/services/foo/"}, b.received())
}

func TestClient_ChangeServiceVersionRejectsMismatch(t *testing.T) {
	c, _ := newTestClient(t, newBackend())
	err := c.ChangeServiceVersion(testContext(t), "shop", "1.0.0",
		api.Service{ShortName: "foo", Version: "1.0.0"},
		api.Service{ShortName: "bar", Version: "2.0.0"})
	assert.Error(t, err)

	err = c.ChangeServiceVersion(testContext(t), "shop", "1.0.0", api.Service{}, api.Service{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestClient_Refresh(t *testing.T) {
	b := newBackend()
	var mu sync.Mutex
	name := "v1"
	b.handle(http.MethodGet, "/services/foo/1.0.0", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintf(w, `{"shortName":"foo","version":"1.0.0","name":%q}`, name)
	})
	c, _ := newTestClient(t, b)
	ctx := testContext(t)

	w := c.Service(ctx, "foo", "1.0.0")
	defer w.Close()
	first, err := w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", first.Name)

	mu.Lock()
	name = "v2"
	mu.Unlock()

	require.NoError(t, c.Refresh(ctx))
	second, err := w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2", second.Name)

	assert.NoError(t, c.Refresh(ctx, "services/never-fetched"))
}

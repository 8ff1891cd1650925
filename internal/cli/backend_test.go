package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mico/internal/api"
)

// fakeMico is a small in-memory MICO backend holding one application and a
// catalog of service versions.
type fakeMico struct {
	mu       sync.Mutex
	app      api.Application
	catalog  map[string][]api.Service
	failAdd  bool
	requests []string
}

func newFakeMico(app api.Application, catalog ...api.Service) *fakeMico {
	f := &fakeMico{app: app, catalog: make(map[string][]api.Service)}
	for _, svc := range catalog {
		f.catalog[svc.ShortName] = append(f.catalog[svc.ShortName], svc)
	}
	return f
}

func (f *fakeMico) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	appPath := "/applications/" + f.app.ShortName + "/" + f.app.Version
	servicesPrefix := appPath + "/services/"
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, servicesPrefix), "/"), "/")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == appPath:
		writeJSON(w, f.app)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/services/"):
		short := strings.Trim(strings.TrimPrefix(r.URL.Path, "/services/"), "/")
		writeJSON(w, map[string]any{"_embedded": map[string]any{"serviceList": f.catalog[short]}})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, servicesPrefix) && len(parts) == 1:
		kept := f.app.Services[:0]
		for _, svc := range f.app.Services {
			if svc.ShortName != parts[0] {
				kept = append(kept, svc)
			}
		}
		f.app.Services = kept
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, servicesPrefix) && len(parts) == 2:
		if f.failAdd {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
			return
		}
		for _, svc := range f.catalog[parts[0]] {
			if svc.Version == parts[1] {
				f.app.Services = append(f.app.Services, svc)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeMico) writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.requests {
		if !strings.HasPrefix(r, http.MethodGet) {
			out = append(out, r)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// newFakeSession starts f and returns a quiet session talking to it.
func newFakeSession(t *testing.T, f *fakeMico) (*Session, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	s, err := NewSession(
		&CommandFlags{APIURL: srv.URL, Quiet: true},
		WithGetenv(envFrom(nil)),
		WithOutput(&out, &bytes.Buffer{}),
	)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, &out
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

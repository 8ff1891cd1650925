package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"mico/internal/api"
	"mico/internal/client"
	"mico/internal/graph"
	"mico/pkg/logging"
)

// GraphSession owns the dependency graph of one application version. It
// feeds every snapshot of the application into a reconciler and runs the
// change-version dialog against the backend.
type GraphSession struct {
	client     *client.Client
	reconciler *graph.Reconciler
	picker     VersionPicker
	short      string
	version    string

	onApply func(api.Application)
	onError func(error)

	mu      sync.Mutex
	watch   *client.Watch[api.Application]
	current api.Application
	loaded  bool
}

// GraphOption configures a GraphSession.
type GraphOption func(*GraphSession)

// WithApplyHook runs fn after each snapshot has been applied.
func WithApplyHook(fn func(api.Application)) GraphOption {
	return func(g *GraphSession) {
		g.onApply = fn
	}
}

// WithErrorHook runs fn for fetch errors seen while following the
// application.
func WithErrorHook(fn func(error)) GraphOption {
	return func(g *GraphSession) {
		g.onError = fn
	}
}

// NewGraphSession builds a session for short@version drawing into renderer.
func NewGraphSession(c *client.Client, renderer graph.Renderer, picker VersionPicker, short, version string, opts ...GraphOption) *GraphSession {
	g := &GraphSession{
		client:     c,
		reconciler: graph.New(renderer),
		picker:     picker,
		short:      short,
		version:    version,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Reconciler exposes the graph state.
func (g *GraphSession) Reconciler() *graph.Reconciler {
	return g.reconciler
}

// Application returns the last applied snapshot.
func (g *GraphSession) Application() (api.Application, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current, g.loaded
}

// Load subscribes to the application and applies the first snapshot.
func (g *GraphSession) Load(ctx context.Context) error {
	g.mu.Lock()
	if g.watch == nil {
		g.watch = g.client.Application(ctx, g.short, g.version)
	}
	w := g.watch
	g.mu.Unlock()

	app, err := w.Next(ctx)
	if err != nil {
		return fmt.Errorf("load application %s@%s: %w", g.short, g.version, err)
	}
	g.apply(app)
	return nil
}

// Follow applies snapshots until ctx is done or the session is closed. Fetch
// errors are reported to the error hook and do not stop the loop.
func (g *GraphSession) Follow(ctx context.Context) error {
	g.mu.Lock()
	w := g.watch
	g.mu.Unlock()
	if w == nil {
		return errors.New("graph session not loaded")
	}

	for {
		app, err := w.Next(ctx)
		switch {
		case err == nil:
			g.apply(app)
		case errors.Is(err, client.ErrClosed), ctx.Err() != nil:
			return nil
		default:
			logging.Warn("Session", "Application %s@%s: %v", g.short, g.version, err)
			if g.onError != nil {
				g.onError(err)
			}
		}
	}
}

func (g *GraphSession) apply(app api.Application) {
	g.reconciler.Apply(app)

	g.mu.Lock()
	g.current = app
	g.loaded = true
	g.mu.Unlock()

	if g.onApply != nil {
		g.onApply(app)
	}
}

// Refresh re-fetches the application; the new snapshot arrives through the
// watch.
func (g *GraphSession) Refresh(ctx context.Context) error {
	g.mu.Lock()
	w := g.watch
	g.mu.Unlock()
	if w == nil {
		return errors.New("graph session not loaded")
	}
	return g.client.Refresh(ctx, w.Path())
}

// ChangeVersion opens the version dialog for the service shown by nodeID
// and, when the user picks a different version, swaps it in the application.
// It returns the chosen version and whether a change was made.
func (g *GraphSession) ChangeVersion(ctx context.Context, nodeID graph.NodeID) (api.Service, bool, error) {
	node, ok := g.reconciler.Node(nodeID)
	if !ok {
		return api.Service{}, false, fmt.Errorf("node %s not found", nodeID)
	}
	if node.Kind != graph.KindService || node.Service == nil {
		return api.Service{}, false, fmt.Errorf("node %s is not a service", nodeID)
	}
	current := *node.Service

	candidates, err := g.client.ServiceVersions(ctx, current.ShortName).Once(ctx)
	if err != nil {
		return api.Service{}, false, fmt.Errorf("list versions of %s: %w", current.ShortName, err)
	}

	picked, ok, err := g.picker.PickVersion(ctx, current, candidates)
	if err != nil {
		return api.Service{}, false, err
	}
	if !ok || picked.Version == current.Version {
		logging.Debug("Session", "Version of %s left unchanged", current.ShortName)
		return current, false, nil
	}

	if err := g.reconciler.MarkVersionChange(nodeID, picked); err != nil {
		return api.Service{}, false, err
	}
	if err := g.client.ChangeServiceVersion(ctx, g.short, g.version, current, picked); err != nil {
		g.reconciler.CancelVersionChange()
		return api.Service{}, false, err
	}

	logging.Info("Session", "Changed %s from %s to %s in %s@%s",
		current.ShortName, current.Version, picked.Version, g.short, g.version)
	return picked, true, nil
}

// ChangeServiceVersion runs ChangeVersion for the node showing shortName.
func (g *GraphSession) ChangeServiceVersion(ctx context.Context, shortName string) (api.Service, bool, error) {
	node, ok := g.reconciler.FindService(shortName)
	if !ok {
		return api.Service{}, false, fmt.Errorf("application %s@%s does not include %s", g.short, g.version, shortName)
	}
	return g.ChangeVersion(ctx, node.ID)
}

// WriteText prints the current graph as a table and include tree.
func (g *GraphSession) WriteText(w io.Writer, colors bool) error {
	return graph.WriteText(w, g.reconciler.Nodes(), g.reconciler.Edges(), colors)
}

// WriteDOT prints the current graph in Graphviz format.
func (g *GraphSession) WriteDOT(w io.Writer) error {
	return graph.WriteDOT(w, g.short+"@"+g.version, g.reconciler.Nodes(), g.reconciler.Edges())
}

// Close stops following the application.
func (g *GraphSession) Close() {
	g.mu.Lock()
	w := g.watch
	g.watch = nil
	g.mu.Unlock()
	if w != nil {
		w.Close()
	}
}

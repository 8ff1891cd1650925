package graph

import (
	"fmt"
	"sort"
	"sync"

	"mico/internal/api"
	"mico/pkg/logging"
)

type versionChange struct {
	node       Node
	newVersion api.Service
}

// Reconciler patches the view of one application against each snapshot it
// is given. It is safe for concurrent use.
type Reconciler struct {
	renderer Renderer

	mu      sync.Mutex
	nodes   map[NodeID]*Node
	edges   map[string]Edge
	lastX   float64
	pending *versionChange
}

// New returns an empty reconciler that drives renderer.
func New(renderer Renderer) *Reconciler {
	return &Reconciler{
		renderer: renderer,
		nodes:    make(map[NodeID]*Node),
		edges:    make(map[string]Edge),
	}
}

// Reset drops every node and edge, the layout cursor and any pending version
// change, and clears the renderer.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nodes = make(map[NodeID]*Node)
	r.edges = make(map[string]Edge)
	r.lastX = 0
	r.pending = nil

	r.renderer.Reset()
	r.renderer.CompleteRender()
	r.renderer.ZoomToBoundingBox(BoundingBox{})
}

// Apply brings the view in line with app. Existing nodes keep their position
// and only have their display fields refreshed, services new to the view are
// appended to the service row and nodes of services the snapshot no longer
// includes are removed with their edges.
func (r *Reconciler) Apply(app api.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()

	toDelete := make(map[NodeID]struct{}, len(r.nodes))
	for id := range r.nodes {
		if id != RootID {
			toDelete[id] = struct{}{}
		}
	}

	r.applyRoot(app)

	created := 0
	for _, svc := range app.Services {
		id := NodeID(svc.Key())
		delete(toDelete, id)

		if node, ok := r.nodes[id]; ok {
			setServiceFields(node, svc)
			r.renderer.AddNode(*node)
			continue
		}

		r.addService(id, svc)
		created++
	}

	removed := make([]NodeID, 0, len(toDelete))
	for id := range toDelete {
		removed = append(removed, id)
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	for _, id := range removed {
		r.removeNode(id)
	}

	logging.Debug("Graph", "Applied %s: %d nodes (%d created, %d removed)", app, len(r.nodes), created, len(removed))

	r.renderer.CompleteRender()
	r.renderer.ZoomToBoundingBox(boundingBox(r.nodesLocked()))
}

func (r *Reconciler) applyRoot(app api.Application) {
	root, ok := r.nodes[RootID]
	if !ok {
		root = &Node{ID: RootID, X: 0, Y: 0, Kind: KindApplication}
		r.nodes[RootID] = root
	}
	appCopy := app
	root.Title = app.Title()
	root.ShortName = app.ShortName
	root.Version = app.Version
	root.Name = app.Name
	root.Description = app.Description
	root.Application = &appCopy
	r.renderer.AddNode(*root)
}

func (r *Reconciler) addService(id NodeID, svc api.Service) {
	node := &Node{ID: id, X: r.lastX, Y: ServiceRowY, Kind: KindService}
	setServiceFields(node, svc)
	r.lastX += ServiceStep

	if r.pending != nil && r.pending.newVersion.Key() == svc.Key() {
		node.X = r.pending.node.X
		node.Y = r.pending.node.Y
		r.lastX -= ServiceStep
		logging.Debug("Graph", "Placed %s at the position of %s", id, r.pending.node.ID)
		r.pending = nil
	}

	r.nodes[id] = node
	r.renderer.AddNode(*node)

	edge := Edge{
		Source:  RootID,
		Target:  id,
		Kind:    EdgeKindIncludes,
		Markers: []Marker{ArrowHead},
	}
	r.edges[edge.ID()] = edge
	r.renderer.AddEdge(edge)
}

func (r *Reconciler) removeNode(id NodeID) {
	delete(r.nodes, id)
	for key, e := range r.edges {
		if e.Source == id || e.Target == id {
			delete(r.edges, key)
		}
	}
	r.renderer.RemoveNode(id)
}

func setServiceFields(node *Node, svc api.Service) {
	svcCopy := svc
	node.Title = svc.Title()
	node.ShortName = svc.ShortName
	node.Version = svc.Version
	node.Name = svc.Name
	node.Description = svc.Description
	node.Service = &svcCopy
}

// MarkVersionChange records that the service shown by nodeID is about to be
// replaced by newVersion. The next snapshot that introduces newVersion places
// it where nodeID was, without moving the layout cursor.
func (r *Reconciler) MarkVersionChange(nodeID NodeID, newVersion api.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[nodeID]
	if !ok {
		return fmt.Errorf("node %s not found", nodeID)
	}
	if node.Kind != KindService {
		return fmt.Errorf("node %s is not a service", nodeID)
	}
	r.pending = &versionChange{node: *node, newVersion: newVersion}
	return nil
}

// CancelVersionChange drops a pending version change.
func (r *Reconciler) CancelVersionChange() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = nil
}

// PendingVersionChange returns the node and replacement of a pending version
// change.
func (r *Reconciler) PendingVersionChange() (NodeID, api.Service, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return "", api.Service{}, false
	}
	return r.pending.node.ID, r.pending.newVersion, true
}

// Node returns a copy of the node with the given ID.
func (r *Reconciler) Node(id NodeID) (Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// FindService returns the service node showing shortName, if any.
func (r *Reconciler) FindService(shortName string) (Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nodesLocked() {
		if n.Kind == KindService && n.ShortName == shortName {
			return n, true
		}
	}
	return Node{}, false
}

// Nodes returns copies of all nodes ordered by row, column and ID.
func (r *Reconciler) Nodes() []Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nodesLocked()
}

// Edges returns all edges ordered by ID.
func (r *Reconciler) Edges() []Edge {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedEdges(r.edges)
}

// BoundingBox returns the box around all nodes.
func (r *Reconciler) BoundingBox() BoundingBox {
	r.mu.Lock()
	defer r.mu.Unlock()
	return boundingBox(r.nodesLocked())
}

// LayoutCursor is the X position the next new service node gets.
func (r *Reconciler) LayoutCursor() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastX
}

func (r *Reconciler) nodesLocked() []Node {
	m := make(map[NodeID]Node, len(r.nodes))
	for id, n := range r.nodes {
		m[id] = *n
	}
	return sortedNodes(m)
}

package graph

import (
	"sort"
	"sync"
)

// Renderer is the visualization a Reconciler drives. The reconciler batches
// changes and calls CompleteRender and ZoomToBoundingBox once per snapshot.
type Renderer interface {
	// AddNode adds the node, replacing a node with the same ID.
	AddNode(n Node)
	// AddEdge adds the edge, replacing an edge with the same ID.
	AddEdge(e Edge)
	// RemoveNode removes the node and every edge touching it.
	RemoveNode(id NodeID)
	// Reset removes everything.
	Reset()
	CompleteRender()
	ZoomToBoundingBox(box BoundingBox)
}

// SceneRenderer keeps the rendered graph in memory.
type SceneRenderer struct {
	mu       sync.Mutex
	nodes    map[NodeID]Node
	edges    map[string]Edge
	viewport BoundingBox
	renders  int
}

// NewSceneRenderer returns an empty scene.
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{
		nodes: make(map[NodeID]Node),
		edges: make(map[string]Edge),
	}
}

func (s *SceneRenderer) AddNode(n Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[n.ID] = n
}

func (s *SceneRenderer) AddEdge(e Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[e.ID()] = e
}

func (s *SceneRenderer) RemoveNode(id NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)
	for key, e := range s.edges {
		if e.Source == id || e.Target == id {
			delete(s.edges, key)
		}
	}
}

func (s *SceneRenderer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[NodeID]Node)
	s.edges = make(map[string]Edge)
}

func (s *SceneRenderer) CompleteRender() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders++
}

func (s *SceneRenderer) ZoomToBoundingBox(box BoundingBox) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = box
}

// Nodes returns the rendered nodes in layout order.
func (s *SceneRenderer) Nodes() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedNodes(s.nodes)
}

// Edges returns the rendered edges ordered by ID.
func (s *SceneRenderer) Edges() []Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedEdges(s.edges)
}

// Viewport is the box of the last ZoomToBoundingBox call.
func (s *SceneRenderer) Viewport() BoundingBox {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// Renders counts CompleteRender calls.
func (s *SceneRenderer) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// sortedNodes orders by row, then column, then ID.
func sortedNodes(m map[NodeID]Node) []Node {
	nodes := make([]Node, 0, len(m))
	for _, n := range m {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Y != nodes[j].Y {
			return nodes[i].Y < nodes[j].Y
		}
		if nodes[i].X != nodes[j].X {
			return nodes[i].X < nodes[j].X
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

func sortedEdges(m map[string]Edge) []Edge {
	edges := make([]Edge, 0, len(m))
	for _, e := range m {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].ID() < edges[j].ID()
	})
	return edges
}

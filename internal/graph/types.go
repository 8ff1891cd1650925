package graph

import (
	"fmt"

	"mico/internal/api"
)

// NodeID is the unique identifier for a node inside the graph. Service nodes
// use the service key (shortName-version).
type NodeID string

// RootID is the ID of the application node.
const RootID NodeID = "APPLICATION"

// Layout of newly created nodes: the root sits at the origin and services
// are placed on one row below it, left to right.
const (
	ServiceRowY = 90
	ServiceStep = 110
)

// NodeKind categorises nodes.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindApplication
	KindService
)

func (k NodeKind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Node is one element of the view together with the resource it shows.
type Node struct {
	ID          NodeID
	X, Y        float64
	Kind        NodeKind
	Title       string
	ShortName   string
	Version     string
	Name        string
	Description string

	// Exactly one of these is set, matching Kind.
	Application *api.Application
	Service     *api.Service
}

// EdgeKindIncludes is the kind of root to service edges.
const EdgeKindIncludes = "includes"

// Marker decorates an edge, e.g. an arrow head at its target end.
type Marker struct {
	Template       string
	PositionOnLine float64
	Scale          float64
	RelativeAngle  float64
}

// ArrowHead is the marker placed on every includes edge.
var ArrowHead = Marker{Template: "arrow", PositionOnLine: 1, Scale: 1, RelativeAngle: 0}

// Edge connects two nodes.
type Edge struct {
	Source  NodeID
	Target  NodeID
	Kind    string
	Markers []Marker
}

// ID returns the edge key, see EdgeID.
func (e Edge) ID() string {
	return EdgeID(e.Source, e.Target)
}

// EdgeID is the key of the edge from source to target.
func EdgeID(source, target NodeID) string {
	return fmt.Sprintf("s%s-t%s", source, target)
}

// BoundingBox is the smallest rectangle containing every node position.
type BoundingBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width of the box.
func (b BoundingBox) Width() float64 {
	return b.MaxX - b.MinX
}

// Height of the box.
func (b BoundingBox) Height() float64 {
	return b.MaxY - b.MinY
}

func boundingBox(nodes []Node) BoundingBox {
	if len(nodes) == 0 {
		return BoundingBox{}
	}
	box := BoundingBox{MinX: nodes[0].X, MinY: nodes[0].Y, MaxX: nodes[0].X, MaxY: nodes[0].Y}
	for _, n := range nodes[1:] {
		box.MinX = min(box.MinX, n.X)
		box.MinY = min(box.MinY, n.Y)
		box.MaxX = max(box.MaxX, n.X)
		box.MaxY = max(box.MaxY, n.Y)
	}
	return box
}

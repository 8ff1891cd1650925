package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/emicklei/dot"
)

// DOTRenderer keeps a scene and writes it as Graphviz DOT on every
// CompleteRender.
type DOTRenderer struct {
	*SceneRenderer

	out  io.Writer
	name string
}

// NewDOTRenderer writes digraphs called name to out.
func NewDOTRenderer(out io.Writer, name string) *DOTRenderer {
	return &DOTRenderer{SceneRenderer: NewSceneRenderer(), out: out, name: name}
}

// CompleteRender writes the current scene.
func (d *DOTRenderer) CompleteRender() {
	d.SceneRenderer.CompleteRender()
	_ = WriteDOT(d.out, d.name, d.Nodes(), d.Edges())
}

// WriteDOT writes nodes and edges as a Graphviz digraph. Node positions are
// emitted as pinned pos attributes in points, Y growing downwards. The
// graph node id is kept in the id attribute.
func WriteDOT(w io.Writer, name string, nodes []Node, edges []Edge) error {
	g := dot.NewGraph(dot.Directed)
	g.ID(dotString(name))

	byID := make(map[NodeID]dot.Node, len(nodes))
	for _, n := range nodes {
		shape := "box"
		if n.Kind == KindApplication {
			shape = "doubleoctagon"
		}
		label := n.Title
		if n.Version != "" {
			label += "\n" + n.Version
		}
		byID[n.ID] = g.Node(string(n.ID)).
			Attr("id", dot.Literal(dotString(string(n.ID)))).
			Attr("label", dot.Literal(dotString(label))).
			Attr("shape", shape).
			Attr("style", "rounded").
			Attr("pos", fmt.Sprintf("%g,%g!", n.X, flipY(n.Y)))
	}

	for _, e := range edges {
		from, ok := byID[e.Source]
		if !ok {
			continue
		}
		to, ok := byID[e.Target]
		if !ok {
			continue
		}
		arrow := "normal"
		if len(e.Markers) == 0 {
			arrow = "none"
		}
		g.Edge(from, to).
			Attr("label", dot.Literal(dotString(e.Kind))).
			Attr("arrowhead", arrow)
	}

	var b strings.Builder
	g.Write(&b)
	_, err := io.WriteString(w, b.String())
	return err
}

// dotString quotes s as a DOT string. Line breaks become \n, other control
// characters are dropped.
func dotString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range strings.ReplaceAll(s, "\r\n", "\n") {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r < 0x20 || r == 0x7f:
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// flipY converts a screen Y to a DOT Y without producing -0.
func flipY(y float64) float64 {
	if y == 0 {
		return 0
	}
	return -y
}

package graph

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TextRenderer keeps a scene and prints it to a writer on every
// CompleteRender: a node table followed by the include tree.
type TextRenderer struct {
	*SceneRenderer

	out     io.Writer
	colors  bool
	onFrame func()
}

// TextOption configures a TextRenderer.
type TextOption func(*TextRenderer)

// WithColors enables ANSI colors.
func WithColors(enabled bool) TextOption {
	return func(t *TextRenderer) {
		t.colors = enabled
	}
}

// WithFrameHook runs fn before each frame is printed, e.g. to clear the
// screen in watch mode.
func WithFrameHook(fn func()) TextOption {
	return func(t *TextRenderer) {
		t.onFrame = fn
	}
}

// NewTextRenderer prints frames to out.
func NewTextRenderer(out io.Writer, opts ...TextOption) *TextRenderer {
	t := &TextRenderer{SceneRenderer: NewSceneRenderer(), out: out}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CompleteRender prints the current scene.
func (t *TextRenderer) CompleteRender() {
	t.SceneRenderer.CompleteRender()
	if t.onFrame != nil {
		t.onFrame()
	}
	_ = WriteText(t.out, t.Nodes(), t.Edges(), t.colors)
}

// WriteText prints nodes as a table and edges as a tree rooted at the
// application node.
func WriteText(w io.Writer, nodes []Node, edges []Edge, colors bool) error {
	if len(nodes) == 0 {
		_, err := fmt.Fprintln(w, "(empty graph)")
		return err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "KIND", "TITLE", "VERSION", "X", "Y"})
	for _, n := range nodes {
		id := string(n.ID)
		if colors && n.Kind == KindApplication {
			id = text.Bold.Sprint(id)
		}
		tw.AppendRow(table.Row{id, n.Kind, n.Title, n.Version, n.X, n.Y})
	}
	if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
		return err
	}

	byID := make(map[NodeID]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedRounded)
	root, ok := byID[RootID]
	if !ok {
		return nil
	}
	lw.AppendItem(nodeLabel(root, colors))
	lw.Indent()
	for _, e := range edges {
		if e.Source != RootID {
			continue
		}
		target, ok := byID[e.Target]
		if !ok {
			continue
		}
		lw.AppendItem(fmt.Sprintf("%s %s", e.Kind, nodeLabel(target, colors)))
	}
	_, err := fmt.Fprintln(w, lw.Render())
	return err
}

func nodeLabel(n Node, colors bool) string {
	label := fmt.Sprintf("%s %s", n.Title, n.Version)
	if colors {
		switch n.Kind {
		case KindApplication:
			return text.FgCyan.Sprint(label)
		case KindService:
			return text.FgGreen.Sprint(label)
		}
	}
	return label
}

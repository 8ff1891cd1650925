// Package graph keeps the dependency view of one application: a root node
// for the application, one node per included service version and an
// "includes" edge from the root to each service.
//
// A Reconciler patches the node and edge set against each new application
// snapshot instead of rebuilding it, so nodes keep their positions across
// updates. Rendering is delegated to a Renderer; the package ships an
// in-memory scene, a text view and a Graphviz DOT export.
package graph

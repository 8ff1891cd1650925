// Package cli provides the command plumbing shared by the mico commands.
//
// # Core Components
//
// Session resolves configuration (config.yaml, MICO_* environment, flags)
// and wires the transport, the resource registry and the API client:
//   - Bearer tokens from --token or a watched --token-file
//   - Output through the formatting package (table, wide, json, yaml, template)
//   - Spinners on stderr while waiting for the backend
//
// GraphSession owns the dependency graph of one application version. It
// feeds snapshots into a graph.Reconciler and runs the change-version dialog
// (VersionPicker, backed by a huh select) followed by the two-step backend
// update. GraphREPL wraps it in a readline shell.
//
// The table types (ApplicationTable, ServiceTable, ...) implement
// formatting.Tabular and marshal exactly like the API models they wrap.
//
// # Errors
//
// ExitCodeForError maps errors to the documented exit codes and Hint adds a
// follow-up suggestion for connection, authentication and partial-write
// failures.
package cli

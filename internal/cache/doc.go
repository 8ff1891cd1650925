// Package cache holds the resource stream registry: one latest-value
// multicast stream per canonical backend path.
//
// A Stream starts unset. Publishing stores a snapshot and hands it to every
// subscriber; a subscriber that joins later receives the current snapshot
// right away and never sees the unset state. Each subscriber has a one-slot
// mailbox, so a slow reader may skip intermediate snapshots but never reads an
// older snapshot after a newer one.
//
// Fetches reserve a Ticket before they start and Deliver their result with
// it. A result whose ticket is older than the last applied one is dropped, so
// the stream always reflects the most recently issued request rather than the
// one that happened to complete last.
//
// The Registry is owned by whoever drives a session (a command, an
// interactive graph view). Closing it ends every stream and subscription.
package cache

// Package state stores the editor's local state as opaque blobs keyed by
// name. The SQLite implementation backs the CLI; Memory is used by tests
// and ephemeral sessions.
package state

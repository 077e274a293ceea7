// Package cli provides the interactive course editor command-line client.
//
// It wires configuration, local state storage, the API client and an
// interactive REPL. Typical flow: log in, open a course, edit sections and
// elements, select files for media elements and save. A background watcher
// tracks whether the server is reachable.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli

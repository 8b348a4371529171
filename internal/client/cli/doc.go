// Package cli provides the interactive board client.
//
// It wires configuration, the local cache, the remote store and the
// services, then runs a REPL for one session. A session passes the entry
// gate, keeps a Board and a Poller of its own and runs three background
// jobs (cache sweep, notification poll, reachability probe) that stop with
// it.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command list.
package cli

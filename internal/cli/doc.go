// Package cli is the cobra command tree.
//
// With no subcommand the root command opens the TUI, optionally at a location
// argument or, with --resume, where the last session ended. The subcommands
// are scriptable: list and show print the catalog as tables or JSON,
// favorites edits the persisted set, and logs prints the tail of the TUI log.
// Subcommands log to stderr at WARN so their stdout stays clean.
package cli

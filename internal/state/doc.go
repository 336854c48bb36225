// Package state tracks in-flight requests so that only the newest one for a
// view is allowed to update it.
//
// Each view (list, detail) owns a Tracker. Begin cancels the previous
// request's context before handing out a new sequence number; responses that
// arrive carrying an older sequence are dropped by the caller after checking
// Current. This gives latest-wins behaviour even when the network completes
// requests out of order.
//
// Tracker is safe for concurrent use: fetch commands run on Bubble Tea's
// command goroutines while the update loop checks sequences.
package state

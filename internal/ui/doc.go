// Package ui implements the interactive terminal viewer with Bubble Tea.
//
// # Views
//
// The list view pages through the catalog, with a debounced search box,
// a sort toggle (name or number), a favorites-only filter and a typed page
// jump. The detail view shows one record: types, measurements, base stats
// drawn as bars out of 255, abilities with their hidden flag, and the
// artwork URL.
//
// # Location
//
// Every list state change replaces the current history entry with the
// list's location ("/?q=char&page=2"). Opening a record pushes
// "/pokemon/{name}" and esc pops back. The current location is shown in the
// footer, copied with y and returned from Run so it can be resumed later.
//
// # Requests
//
// List and detail fetches run as tea.Cmds. Each view owns a state.Tracker:
// starting a fetch cancels the previous one and responses carrying an older
// sequence are dropped, so the newest request always wins.
//
// # Favorites
//
// The favorites store is shared with the rest of the program. The model
// subscribes to it and receives changes as messages, so the list markers,
// the detail badge and the header count stay in step.
package ui

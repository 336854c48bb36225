// Package app is the composition root of pokedex.
//
// Open loads config.toml and prefs.toml, builds the slog logger, opens the
// key-value backend that holds favorites, and wires the rate limited API
// client into a catalog.Source. The TUI and every subcommand share the
// resulting Services value.
//
//	Open()
//	 ├─> config.Load()         file + POKEDEX_* overrides
//	 ├─> prefs.Load()          theme, last location
//	 ├─> makeLogger()          log file, or the caller's writer at WARN
//	 ├─> kv.Open()             sqlite (default) or json
//	 ├─> favorites.Open()      hydrate the set
//	 └─> catalog.NewSource()   over pokeapi.Client
//
// Configuration and storage failures are returned from Open. Failures after
// startup, such as saving the last location, are logged and do not change
// the exit status.
package app

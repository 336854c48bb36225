// Package config loads the viewer's configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (Default)
//  2. The TOML file at the given path, or ~/.config/pokedex/config.toml
//  3. POKEDEX_* environment variables (read with cleanenv)
//
// A missing file is not an error. A file that fails to parse, a malformed
// duration or an out-of-range value is.
//
// # Keys
//
//	api_url              = "https://pokeapi.co/api/v2"   # POKEDEX_API_URL
//	page_size            = 30                            # POKEDEX_PAGE_SIZE (1..100)
//	search_limit         = 1000                          # POKEDEX_SEARCH_LIMIT (>= page_size)
//	debounce             = "300ms"                       # POKEDEX_DEBOUNCE
//	timeout              = "10s"                         # POKEDEX_TIMEOUT
//	requests_per_second  = 5                             # POKEDEX_RPS (0 disables)
//	storage              = "sqlite"                      # POKEDEX_STORAGE (sqlite|json)
//	data_dir             = "~/.local/share/pokedex"      # POKEDEX_DATA_DIR
//	log_path             = "~/.local/state/pokedex/pokedex.log"  # POKEDEX_LOG_PATH
//	log_level            = "INFO"                        # POKEDEX_LOG_LEVEL
//
// Paths beginning with ~ are expanded against the user's home directory.
package config

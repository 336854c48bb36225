// Package logtail reads the tail of the pokedex log file.
//
// The log is written by log/slog's text handler, one record per line with a
// level=... attribute. Tail keeps the newest lines at or above a minimum level
// using a fixed ring buffer, so large files are scanned once without holding
// them in memory. Lines that carry no level, such as a panic trace, are always
// kept.
//
// # Usage
//
//	entries, err := logtail.Tail(cfg.LogPath, 100, slog.LevelWarn)
//	for _, e := range entries {
//		fmt.Println(e.Render())
//	}
package logtail

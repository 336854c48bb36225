package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Entry is one line of the slog text log.
type Entry struct {
	Line string
	// Level is meaningful only when HasLevel is set. Continuation lines and
	// foreign output carry no level.
	Level    slog.Level
	HasLevel bool
}

// Tail returns at most n entries from the end of the log at path whose level
// is at least min. Lines without a level are kept. A missing file is empty.
func Tail(path string, n int, min slog.Level) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]Entry, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, idx := 0, 0
	for scanner.Scan() {
		e := Parse(scanner.Text())
		if e.HasLevel && e.Level < min {
			continue
		}
		ring[idx] = e
		idx = (idx + 1) % n
		if count < n {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	entries := make([]Entry, count)
	if count == n {
		for i := range count {
			entries[i] = ring[(idx+i)%n]
		}
	} else {
		copy(entries, ring[:count])
	}
	return entries, nil
}

// Parse reads the level=... attribute of a slog text line.
func Parse(line string) Entry {
	e := Entry{Line: line}
	for _, field := range strings.Fields(line) {
		value, ok := strings.CutPrefix(field, "level=")
		if !ok {
			continue
		}
		if err := e.Level.UnmarshalText([]byte(value)); err == nil {
			e.HasLevel = true
		}
		break
	}
	return e
}

var levelStyles = map[slog.Level]lipgloss.Style{
	slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")),
	slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F8F8F2")),
	slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C")),
	slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
}

// Render colors the line by its level.
func (e Entry) Render() string {
	if !e.HasLevel {
		return e.Line
	}
	level := slog.LevelDebug
	for _, l := range []slog.Level{slog.LevelError, slog.LevelWarn, slog.LevelInfo} {
		if e.Level >= l {
			level = l
			break
		}
	}
	return levelStyles[level].Render(e.Line)
}

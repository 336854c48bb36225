package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/pokedex/internal/prefs"
)

func isolate(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("POKEDEX_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("POKEDEX_LOG_PATH", filepath.Join(dir, "state", "pokedex.log"))
	t.Setenv("POKEDEX_STORAGE", "json")
	return dir
}

func TestOpenWiresFavoritesToStorage(t *testing.T) {
	dir := isolate(t)
	opts := Options{ConfigPath: filepath.Join(dir, "missing.toml"), PrefsPath: filepath.Join(dir, "prefs.toml")}

	svc, err := Open(opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	svc.Favorites.Add("Pikachu")
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "data", "favorites.json")); err != nil {
		t.Fatalf("expected favorites file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "state", "pokedex.log")); err != nil {
		t.Fatalf("expected log file: %v", err)
	}

	svc, err = Open(opts)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer svc.Close()
	if !svc.Favorites.IsFavorite("pikachu") {
		t.Fatalf("favorites did not survive reopen: %v", svc.Favorites.List())
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	dir := isolate(t)
	t.Setenv("POKEDEX_STORAGE", "redis")

	if _, err := Open(Options{ConfigPath: filepath.Join(dir, "missing.toml")}); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

func TestOpenLogWriterCapsLevel(t *testing.T) {
	dir := isolate(t)
	t.Setenv("POKEDEX_LOG_LEVEL", "debug")
	var buf bytes.Buffer

	svc, err := Open(Options{ConfigPath: filepath.Join(dir, "missing.toml"), LogWriter: &buf})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer svc.Close()

	svc.Logger.Info("hidden")
	svc.Logger.Warn("shown")
	if got := buf.String(); bytes.Contains([]byte(got), []byte("hidden")) || !bytes.Contains([]byte(got), []byte("shown")) {
		t.Fatalf("unexpected log output: %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "state", "pokedex.log")); !os.IsNotExist(err) {
		t.Fatalf("log file should not be created when a writer is given, stat err = %v", err)
	}
}

func TestStartLocation(t *testing.T) {
	dir := isolate(t)
	prefsPath := filepath.Join(dir, "prefs.toml")
	if err := prefs.Save(prefsPath, prefs.Prefs{Theme: "Slate", LastLocation: "/?page=3&q=char"}); err != nil {
		t.Fatalf("save prefs: %v", err)
	}

	svc, err := Open(Options{ConfigPath: filepath.Join(dir, "missing.toml"), PrefsPath: prefsPath})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer svc.Close()

	tests := []struct {
		name     string
		explicit string
		resume   bool
		want     string
		wantErr  bool
	}{
		{name: "default", want: "/"},
		{name: "explicit", explicit: "/pokemon/Eevee", want: "/pokemon/eevee"},
		{name: "explicit beats resume", explicit: "/?page=2", resume: true, want: "/?page=2"},
		{name: "resume", resume: true, want: "/?page=3&q=char"},
		{name: "unknown route", explicit: "/berries", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := svc.StartLocation(tt.explicit, tt.resume)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", loc)
				}
				return
			}
			if err != nil {
				t.Fatalf("StartLocation: %v", err)
			}
			if got := loc.String(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStartLocationIgnoresBadSavedLocation(t *testing.T) {
	dir := isolate(t)
	prefsPath := filepath.Join(dir, "prefs.toml")
	if err := prefs.Save(prefsPath, prefs.Prefs{LastLocation: "/items/42"}); err != nil {
		t.Fatalf("save prefs: %v", err)
	}
	var buf bytes.Buffer
	svc, err := Open(Options{ConfigPath: filepath.Join(dir, "missing.toml"), PrefsPath: prefsPath, LogWriter: &buf})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer svc.Close()

	loc, err := svc.StartLocation("", true)
	if err != nil {
		t.Fatalf("StartLocation: %v", err)
	}
	if loc.String() != "/" {
		t.Fatalf("got %q, want /", loc.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("ignoring saved location")) {
		t.Fatalf("expected warning, got %q", buf.String())
	}
}

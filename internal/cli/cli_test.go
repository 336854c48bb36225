package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

var catalogNames = func() []string {
	names := []string{"bulbasaur", "ivysaur", "venusaur", "charmander", "charmeleon", "charizard"}
	for i := len(names); i < 45; i++ {
		names = append(names, fmt.Sprintf("mon-%02d", i+1))
	}
	names[24] = "pikachu"
	return names
}()

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/pokemon", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		end := min(offset+limit, len(catalogNames))
		results := []map[string]string{}
		for i := offset; i < end; i++ {
			results = append(results, map[string]string{
				"name": catalogNames[i],
				"url":  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", i+1),
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"count": len(catalogNames), "results": results})
	})
	mux.HandleFunc("/api/v2/pokemon/pikachu", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 25, "name": "pikachu", "height": 4, "weight": 60, "base_experience": 112,
			"types": [{"slot": 1, "type": {"name": "electric"}}],
			"stats": [{"base_stat": 35, "effort": 0, "stat": {"name": "hp"}}, {"base_stat": 90, "effort": 2, "stat": {"name": "speed"}}],
			"abilities": [{"is_hidden": false, "slot": 1, "ability": {"name": "static"}}, {"is_hidden": true, "slot": 3, "ability": {"name": "lightning-rod"}}],
			"sprites": {"other": {"official-artwork": {"front_default": "https://example.test/25.png"}}}
		}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// isolate points every path and the API at test-owned locations and returns
// the global flags to pass.
func isolate(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	srv := newFakeAPI(t)
	t.Setenv("POKEDEX_API_URL", srv.URL+"/api/v2")
	t.Setenv("POKEDEX_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("POKEDEX_LOG_PATH", filepath.Join(dir, "pokedex.log"))
	t.Setenv("POKEDEX_RPS", "0")
	return []string{"--config", filepath.Join(dir, "config.toml"), "--prefs", filepath.Join(dir, "prefs.toml")}
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: pokedex %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	return string(stdout)
}

func decodeList(t *testing.T, out string) listOutput {
	t.Helper()
	var got listOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal list output: %v\n%s", err, out)
	}
	return got
}

func TestListJSON(t *testing.T) {
	global := isolate(t)

	got := decodeList(t, mustRun(t, append(global, "list", "--page", "2", "--json")...))
	if got.Total != 45 || got.TotalPages != 2 || got.Page != 2 {
		t.Fatalf("unexpected paging: %+v", got)
	}
	if len(got.Rows) != 15 {
		t.Fatalf("expected 15 rows on the last page, got %d", len(got.Rows))
	}
	if got.Location != "/?page=2" {
		t.Fatalf("location = %q", got.Location)
	}
}

func TestListClampsPastTheEnd(t *testing.T) {
	global := isolate(t)

	got := decodeList(t, mustRun(t, append(global, "list", "--page", "9", "--json")...))
	if got.Page != 2 || len(got.Rows) != 15 {
		t.Fatalf("expected clamp to page 2, got page %d with %d rows", got.Page, len(got.Rows))
	}
}

func TestListSearchAndSort(t *testing.T) {
	global := isolate(t)

	got := decodeList(t, mustRun(t, append(global, "list", "--search", "CHAR", "--sort", "id", "--json")...))
	var names []string
	for _, r := range got.Rows {
		names = append(names, r.Name)
	}
	if strings.Join(names, ",") != "charmander,charmeleon,charizard" {
		t.Fatalf("rows = %v", names)
	}
	if got.Location != "/?q=CHAR&sort=id" {
		t.Fatalf("location = %q", got.Location)
	}

	out := mustRun(t, append(global, "list", "--search", "charmandr")...)
	if !strings.Contains(out, "No Pokémon found.") || !strings.Contains(out, "charmander") {
		t.Fatalf("expected empty state with suggestion, got:\n%s", out)
	}
}

func TestListTable(t *testing.T) {
	global := isolate(t)

	out := mustRun(t, append(global, "list", "--page-size", "5")...)
	for _, want := range []string{"NAME", "bulbasaur", "charmander", "Page 1 of 9", "Showing 1-5 of 45"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestListRejectsBadFlags(t *testing.T) {
	global := isolate(t)

	if _, _, err := runCLI(t, append(global, "list", "--sort", "weight")); err == nil {
		t.Fatal("expected error for unknown sort")
	}
	if _, _, err := runCLI(t, append(global, "list", "--page", "0")); err == nil {
		t.Fatal("expected error for page 0")
	}
	for _, size := range []string{"0", "-3", "101"} {
		if _, _, err := runCLI(t, append(global, "list", "--page-size="+size)); err == nil {
			t.Fatalf("expected error for page-size %s", size)
		}
	}
}

func TestShow(t *testing.T) {
	global := isolate(t)

	out := mustRun(t, append(global, "show", "Pikachu")...)
	for _, want := range []string{"pikachu #025", "electric", "0.4 m", "6.0 kg", "speed", "lightning-rod (hidden)", "https://example.test/25.png", "/pokemon/pikachu"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(mustRun(t, append(global, "show", "pikachu", "--json")...)), &got); err != nil {
		t.Fatalf("unmarshal show output: %v", err)
	}
	if got["id"] != float64(25) || got["favorite"] != false || got["artwork"] != "https://example.test/25.png" {
		t.Fatalf("unexpected show output: %v", got)
	}
}

func TestShowNotFound(t *testing.T) {
	global := isolate(t)

	_, stderr, err := runCLI(t, append(global, "show", "missingno"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(string(stderr), `"missingno" not found`) {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestFavoritesLifecycle(t *testing.T) {
	global := isolate(t)

	if out := mustRun(t, append(global, "favorites", "list")...); !strings.Contains(out, "No favorites yet.") {
		t.Fatalf("expected empty list, got %q", out)
	}
	if out := mustRun(t, append(global, "list", "--favorites")...); !strings.Contains(out, "No favorites yet.") {
		t.Fatalf("expected favorites-only empty state, got %q", out)
	}

	mustRun(t, append(global, "favorites", "add", " Pikachu ")...)
	mustRun(t, append(global, "favorites", "add", "bulbasaur")...)
	if out := mustRun(t, append(global, "favorites", "add", "pikachu")...); !strings.Contains(out, "already") {
		t.Fatalf("expected duplicate notice, got %q", out)
	}
	if out := mustRun(t, append(global, "favorites", "list")...); out != "pikachu\nbulbasaur\n" {
		t.Fatalf("favorites list = %q", out)
	}

	got := decodeList(t, mustRun(t, append(global, "list", "--favorites", "--json")...))
	if got.Total != 45 || len(got.Rows) != 2 || got.Rows[0].Name != "bulbasaur" || got.Rows[1].Name != "pikachu" || !got.Rows[0].Favorite {
		t.Fatalf("favorites-only page 1 = %+v", got)
	}

	if out := mustRun(t, append(global, "favorites", "toggle", "pikachu")...); !strings.Contains(out, "Removed pikachu") {
		t.Fatalf("toggle output = %q", out)
	}
	if out := mustRun(t, append(global, "favorites", "remove", "pikachu")...); !strings.Contains(out, "not a favorite") {
		t.Fatalf("remove output = %q", out)
	}

	var listed struct {
		Favorites []string `json:"favorites"`
	}
	if err := json.Unmarshal([]byte(mustRun(t, append(global, "favorites", "list", "--json")...)), &listed); err != nil {
		t.Fatalf("unmarshal favorites: %v", err)
	}
	if strings.Join(listed.Favorites, ",") != "bulbasaur" {
		t.Fatalf("favorites = %v", listed.Favorites)
	}
}

func TestFavoritesRejectsEmptyName(t *testing.T) {
	global := isolate(t)

	_, stderr, err := runCLI(t, append(global, "favorites", "add", "   "))
	if err == nil {
		t.Fatal("expected error for blank name")
	}
	if !strings.Contains(string(stderr), "must not be empty") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestLogs(t *testing.T) {
	global := isolate(t)
	logPath := os.Getenv("POKEDEX_LOG_PATH")
	content := strings.Join([]string{
		`level=INFO msg=exit location=/`,
		`level=WARN msg="page fetch failed" error=boom`,
		`level=ERROR msg="run ui"`,
	}, "\n") + "\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out := mustRun(t, append(global, "logs", "--level", "warn")...)
	if strings.Contains(out, "msg=exit") || !strings.Contains(out, "page fetch failed") || !strings.Contains(out, "run ui") {
		t.Fatalf("logs output = %q", out)
	}
	out = mustRun(t, append(global, "logs", "-n", "1")...)
	if strings.TrimSpace(out) != `level=ERROR msg="run ui"` {
		t.Fatalf("logs -n 1 = %q", out)
	}
}

func TestRootRejectsUnknownLocation(t *testing.T) {
	global := isolate(t)

	if _, _, err := runCLI(t, append(global, "/berries/oran")); err == nil {
		t.Fatal("expected error for unknown route")
	}
}

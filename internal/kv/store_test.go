package kv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := Open(BackendSQLite, filepath.Join(dir, "sqlite"))
	assert.NilError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	file, err := Open(BackendJSON, filepath.Join(dir, "json"))
	assert.NilError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	return map[string]Store{"sqlite": sqlite, "json": file}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("pokemon-favorites")
			assert.Assert(t, errors.Is(err, ErrNotFound), "got %v", err)

			assert.NilError(t, store.Set("pokemon-favorites", []byte(`["pikachu"]`)))
			got, err := store.Get("pokemon-favorites")
			assert.NilError(t, err)
			assert.Equal(t, string(got), `["pikachu"]`)

			assert.NilError(t, store.Set("pokemon-favorites", []byte(`["pikachu","eevee"]`)))
			got, err = store.Get("pokemon-favorites")
			assert.NilError(t, err)
			assert.Equal(t, string(got), `["pikachu","eevee"]`)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "favorites.json")
	first := NewFileStore(path)
	assert.NilError(t, first.Set("a", []byte(`1`)))
	assert.NilError(t, first.Set("b", []byte(`"two"`)))

	second := NewFileStore(path)
	got, err := second.Get("b")
	assert.NilError(t, err)
	assert.Equal(t, string(got), `"two"`)

	_, err = os.Stat(path + ".tmp")
	assert.Assert(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileStore_RejectsInvalidJSON(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "favorites.json"))
	assert.ErrorContains(t, store.Set("k", []byte(`{not json`)), "not valid JSON")
}

func TestFileStore_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	assert.NilError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	_, err := NewFileStore(path).Get("k")
	assert.ErrorContains(t, err, "parse")
}

func TestSQLiteStore_MigratesOnceAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pokedex.db")
	first, err := NewSQLiteStore(path)
	assert.NilError(t, err)
	assert.NilError(t, first.Set("k", []byte(`"v"`)))
	assert.NilError(t, first.Close())

	second, err := NewSQLiteStore(path)
	assert.NilError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	version, err := second.SchemaVersion()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(version, currentSchemaVersion))

	got, err := second.Get("k")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(string(got), `"v"`))
}

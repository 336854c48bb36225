package favorites

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/five82/pokedex/internal/kv"
)

type memStore struct {
	values  map[string][]byte
	getErr  error
	setErr  error
	setHits int
}

func newMem() *memStore { return &memStore{values: map[string][]byte{}} }

func (m *memStore) Get(key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(key string, value []byte) error {
	m.setHits++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Close() error { return nil }

func TestOpen_MissingKeyIsEmpty(t *testing.T) {
	s := Open(newMem(), nil)
	assert.Equal(t, s.Len(), 0)
	assert.DeepEqual(t, s.List(), []string{})
}

func TestOpen_CorruptDataIsEmpty(t *testing.T) {
	mem := newMem()
	mem.values[StorageKey] = []byte(`{"not":"an array"}`)
	s := Open(mem, nil)
	assert.Equal(t, s.Len(), 0)
}

func TestOpen_ReadErrorIsEmpty(t *testing.T) {
	mem := newMem()
	mem.getErr = errors.New("disk on fire")
	s := Open(mem, nil)
	assert.Equal(t, s.Len(), 0)
}

func TestOpen_DropsDuplicatesAndBlanks(t *testing.T) {
	mem := newMem()
	mem.values[StorageKey] = []byte(`["pikachu"," ","Pikachu","eevee"]`)
	s := Open(mem, nil)
	assert.DeepEqual(t, s.List(), []string{"pikachu", "eevee"})
}

func TestToggle_TwiceRestoresSet(t *testing.T) {
	mem := newMem()
	s := Open(mem, nil)
	s.Add("bulbasaur")
	before := s.List()

	assert.Check(t, s.Toggle("pikachu"))
	assert.Check(t, s.IsFavorite("pikachu"))
	assert.Check(t, !s.Toggle("pikachu"))
	assert.Check(t, !s.IsFavorite("pikachu"))

	assert.DeepEqual(t, s.List(), before)
	assert.Equal(t, string(mem.values[StorageKey]), `["bulbasaur"]`)
}

func TestPersistence_RoundTrip(t *testing.T) {
	mem := newMem()
	first := Open(mem, nil)
	first.Add("charmander")
	first.Add("squirtle")
	first.Remove("charmander")
	first.Toggle("eevee")

	second := Open(mem, nil)
	assert.DeepEqual(t, second.List(), []string{"squirtle", "eevee"})
}

func TestPersistence_RoundTripThroughKVBackends(t *testing.T) {
	for _, kind := range []string{kv.BackendSQLite, kv.BackendJSON} {
		t.Run(kind, func(t *testing.T) {
			dir := t.TempDir()
			backend, err := kv.Open(kind, dir)
			assert.NilError(t, err)
			Open(backend, nil).Toggle("mew")
			assert.NilError(t, backend.Close())

			backend, err = kv.Open(kind, dir)
			assert.NilError(t, err)
			t.Cleanup(func() { _ = backend.Close() })
			assert.Check(t, Open(backend, nil).IsFavorite("mew"))
		})
	}
}

func TestAddRemove_NoOpsDoNotPersist(t *testing.T) {
	mem := newMem()
	s := Open(mem, nil)
	s.Add("mew")
	s.Add("mew")
	s.Remove("mewtwo")
	s.Add("   ")
	assert.Equal(t, mem.setHits, 1)
	assert.Equal(t, s.Len(), 1)
}

func TestWriteFailureKeepsMemoryAuthoritative(t *testing.T) {
	mem := newMem()
	mem.setErr = errors.New("read-only filesystem")
	s := Open(mem, nil)

	assert.Check(t, s.Toggle("ditto"))
	assert.Check(t, s.IsFavorite("ditto"))
	assert.Equal(t, mem.setHits, 1)
}

func TestSubscribe_PublishesOnChange(t *testing.T) {
	s := Open(newMem(), nil)
	var got [][]string
	unsubscribe := s.Subscribe(func(names []string) { got = append(got, names) })

	s.Toggle("pikachu")
	s.Add("pikachu")
	s.Add("eevee")
	unsubscribe()
	s.Remove("eevee")
	unsubscribe()

	assert.Check(t, is.Len(got, 2))
	assert.DeepEqual(t, got[0], []string{"pikachu"})
	assert.DeepEqual(t, got[1], []string{"pikachu", "eevee"})
}

func TestList_ReturnsCopy(t *testing.T) {
	s := Open(newMem(), nil)
	s.Add("onix")
	list := s.List()
	list[0] = "mutated"
	assert.Check(t, s.IsFavorite("onix"))
}

func TestValidateName(t *testing.T) {
	name, err := ValidateName("  Snorlax ")
	assert.NilError(t, err)
	assert.Equal(t, name, "snorlax")
	_, err = ValidateName(" ")
	assert.Check(t, errors.Is(err, ErrEmptyName))
}

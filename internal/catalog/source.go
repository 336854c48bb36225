// Package catalog turns the remote list endpoint into the paged, optionally
// searched result set the list view renders.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/five82/pokedex/internal/pokeapi"
)

// DefaultSearchLimit is the size of the single batch a search filters over.
const DefaultSearchLimit = 1000

// MaxSuggestions caps the "did you mean" hints returned for an empty search.
const MaxSuggestions = 3

// Lister is the list endpoint the Source pages over.
type Lister interface {
	ListPokemon(ctx context.Context, offset, limit int) (pokeapi.ResourceList, error)
}

// Getter is the detail endpoint.
type Getter interface {
	GetPokemon(ctx context.Context, name string) (*pokeapi.Pokemon, error)
}

// API combines both endpoints. *pokeapi.Client satisfies it.
type API interface {
	Lister
	Getter
}

var _ API = (*pokeapi.Client)(nil)

// Query asks for one page of rows.
type Query struct {
	Offset int
	Limit  int
	Search string
}

// Page is one fetched slice of the catalog.
type Page struct {
	Total       int
	Rows        []pokeapi.NamedResource
	Suggestions []string
}

// FetchError wraps a failed request with what was being fetched.
type FetchError struct {
	Op    string
	Query Query
	Name  string
	Err   error
}

func (e *FetchError) Error() string {
	switch e.Op {
	case "detail":
		return fmt.Sprintf("fetch pokemon %q: %v", e.Name, e.Err)
	default:
		if e.Query.Search != "" {
			return fmt.Sprintf("fetch page (search %q): %v", e.Query.Search, e.Err)
		}
		return fmt.Sprintf("fetch page (offset %d, limit %d): %v", e.Query.Offset, e.Query.Limit, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Source serves pages and details from the remote API.
type Source struct {
	api         API
	searchLimit int
}

// NewSource builds a Source. A searchLimit <= 0 uses DefaultSearchLimit.
func NewSource(api API, searchLimit int) *Source {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &Source{api: api, searchLimit: searchLimit}
}

// Page returns the rows for q. Without a search the offset and limit go to the
// API as-is. With a search, one batch of SearchLimit names is filtered by
// case-insensitive substring and the requested window is sliced out of the
// matches.
func (s *Source) Page(ctx context.Context, q Query) (Page, error) {
	if q.Offset < 0 {
		return Page{}, fmt.Errorf("offset must be >= 0, got %d", q.Offset)
	}
	if q.Limit <= 0 {
		return Page{}, fmt.Errorf("limit must be > 0, got %d", q.Limit)
	}
	q.Search = strings.TrimSpace(q.Search)

	if q.Search == "" {
		list, err := s.api.ListPokemon(ctx, q.Offset, q.Limit)
		if err != nil {
			return Page{}, wrap("list", q, "", err)
		}
		return Page{Total: list.Count, Rows: list.Results}, nil
	}

	batch, err := s.api.ListPokemon(ctx, 0, s.searchLimit)
	if err != nil {
		return Page{}, wrap("search", q, "", err)
	}
	matches := Filter(batch.Results, q.Search)
	page := Page{Total: len(matches), Rows: window(matches, q.Offset, q.Limit)}
	if len(matches) == 0 {
		page.Suggestions = Suggest(batch.Results, q.Search, MaxSuggestions)
	}
	return page, nil
}

// Detail fetches one item by name. The name is trimmed and lowercased.
func (s *Source) Detail(ctx context.Context, name string) (*pokeapi.Pokemon, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("pokemon name required")
	}
	mon, err := s.api.GetPokemon(ctx, name)
	if err != nil {
		return nil, wrap("detail", Query{}, name, err)
	}
	return mon, nil
}

// Filter keeps the rows whose name contains search, ignoring case. Order is preserved.
func Filter(rows []pokeapi.NamedResource, search string) []pokeapi.NamedResource {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return rows
	}
	out := make([]pokeapi.NamedResource, 0)
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}

// resourceNames implements fuzzy.Source over a row slice.
type resourceNames []pokeapi.NamedResource

func (r resourceNames) String(i int) string { return r[i].Name }
func (r resourceNames) Len() int            { return len(r) }

// Suggest returns up to n names that fuzzily match search, best first.
func Suggest(rows []pokeapi.NamedResource, search string, n int) []string {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" || n <= 0 {
		return nil
	}
	matches := fuzzy.FindFrom(search, resourceNames(rows))
	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, rows[m.Index].Name)
	}
	return out
}

func window(rows []pokeapi.NamedResource, offset, limit int) []pokeapi.NamedResource {
	if offset >= len(rows) {
		return []pokeapi.NamedResource{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

// Cancellation is passed through untouched so callers can drop it quietly.
func wrap(op string, q Query, name string, err error) error {
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	return &FetchError{Op: op, Query: q, Name: name, Err: err}
}

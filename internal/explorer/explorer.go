// Package explorer holds the list view's state: the query that drives fetches,
// the latest fetched page, and the rows derived from both.
package explorer

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/pokedex/internal/catalog"
	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/route"
)

// DefaultPageSize is the number of rows requested per page.
const DefaultPageSize = 30

// FavoriteSet is the read side of the favorites store.
type FavoriteSet interface {
	IsFavorite(name string) bool
	Len() int
}

// Controller is owned by the list view and is not safe for concurrent use.
type Controller struct {
	pageSize  int
	favorites FavoriteSet
	collator  *collate.Collator

	query Query
	input string

	page    catalog.Page
	applied catalog.Query
	hasPage bool
	err     error
}

// New returns a controller at the default query.
func New(pageSize int, favorites FavoriteSet) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		pageSize:  pageSize,
		favorites: favorites,
		collator:  collate.New(language.English),
		query:     DefaultQuery(),
	}
}

// Seed replaces the query, typically with FromValues of a start location.
func (c *Controller) Seed(q Query) {
	if q.Sort == "" {
		q.Sort = SortName
	}
	if q.Page < 1 {
		q.Page = 1
	}
	c.query = q
	c.input = q.Search
}

// Query returns the current state. Search holds the settled term.
func (c *Controller) Query() Query { return c.query }

// PageSize returns the rows requested per page.
func (c *Controller) PageSize() int { return c.pageSize }

// Search returns the text as typed, before debouncing.
func (c *Controller) Search() string { return c.input }

// SetSearch records typed text without touching the fetch state.
func (c *Controller) SetSearch(text string) { c.input = text }

// Settle stores the debounced search term. A changed term resets the page to 1.
func (c *Controller) Settle(text string) bool {
	text = strings.TrimSpace(text)
	if text == c.query.Search {
		return false
	}
	c.query.Search = text
	c.query.Page = 1
	return true
}

// SetSort changes the ordering. The page is kept.
func (c *Controller) SetSort(key SortKey) bool {
	if _, ok := ParseSort(string(key)); !ok || key == c.query.Sort {
		return false
	}
	c.query.Sort = key
	return true
}

// CycleSort advances to the next ordering.
func (c *Controller) CycleSort() SortKey {
	c.query.Sort = c.query.Sort.Next()
	return c.query.Sort
}

// SetFavoritesOnly toggles the favorites filter explicitly. The page is kept.
func (c *Controller) SetFavoritesOnly(on bool) bool {
	if c.query.FavoritesOnly == on {
		return false
	}
	c.query.FavoritesOnly = on
	return true
}

// ToggleFavoritesOnly flips the favorites filter and returns the new value.
func (c *Controller) ToggleFavoritesOnly() bool {
	c.query.FavoritesOnly = !c.query.FavoritesOnly
	return c.query.FavoritesOnly
}

// TotalPages is ceil(total / pageSize), at least 1 once a page has loaded
// and 0 before.
func (c *Controller) TotalPages() int {
	if !c.hasPage {
		return 0
	}
	pages := (c.page.Total + c.pageSize - 1) / c.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// SetPage moves to page n when it is in range. Before the first page has
// loaded the total is unknown and any n >= 1 is accepted.
func (c *Controller) SetPage(n int) bool {
	if !c.validPage(n) || n == c.query.Page {
		return false
	}
	c.query.Page = n
	return true
}

// NextPage advances one page when possible.
func (c *Controller) NextPage() bool {
	if !c.HasNext() {
		return false
	}
	return c.SetPage(c.query.Page + 1)
}

// PrevPage goes back one page when possible.
func (c *Controller) PrevPage() bool {
	if !c.HasPrev() {
		return false
	}
	return c.SetPage(c.query.Page - 1)
}

// HasNext reports whether a later page exists.
func (c *Controller) HasNext() bool {
	return c.hasPage && c.query.Page < c.TotalPages()
}

// HasPrev reports whether an earlier page exists.
func (c *Controller) HasPrev() bool {
	return c.query.Page > 1
}

// ParsePageInput validates typed page input. Rejected input leaves the caller
// to revert to the current page.
func (c *Controller) ParsePageInput(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !c.validPage(n) {
		return c.query.Page, false
	}
	return n, true
}

func (c *Controller) validPage(n int) bool {
	if n < 1 {
		return false
	}
	if !c.hasPage {
		return true
	}
	return n <= c.TotalPages()
}

// ShouldFetch is false when only favorites are shown and there are none.
func (c *Controller) ShouldFetch() bool {
	if c.query.FavoritesOnly && c.favorites != nil && c.favorites.Len() == 0 {
		return false
	}
	return true
}

// Request builds the data source query for the current state.
func (c *Controller) Request() catalog.Query {
	page := c.query.Page
	if page < 1 {
		page = 1
	}
	return catalog.Query{
		Offset: (page - 1) * c.pageSize,
		Limit:  c.pageSize,
		Search: c.query.Search,
	}
}

// Apply stores the page fetched for q. When the current page lies beyond
// the new total it is clamped and Apply returns true so the caller fetches
// again.
func (c *Controller) Apply(q catalog.Query, page catalog.Page) (refetch bool) {
	c.page = page
	c.applied = q
	c.hasPage = true
	c.err = nil
	if last := c.TotalPages(); c.query.Page > last {
		c.query.Page = last
		return true
	}
	return false
}

// Fail records a fetch error. Previously fetched rows are kept.
func (c *Controller) Fail(err error) { c.err = err }

// Err returns the last fetch error, cleared by the next Apply.
func (c *Controller) Err() error { return c.err }

// Loaded reports whether any page has been applied.
func (c *Controller) Loaded() bool { return c.hasPage }

// Stale reports whether the shown page was fetched for a different request
// than the current state asks for, or nothing has been fetched yet.
func (c *Controller) Stale() bool {
	return !c.hasPage || c.applied != c.Request()
}

// Total returns the match count reported by the last page.
func (c *Controller) Total() int { return c.page.Total }

// Suggestions returns the "did you mean" names of the last page.
func (c *Controller) Suggestions() []string { return c.page.Suggestions }

// Rows returns the fetched rows filtered by the favorites toggle, then sorted.
// A stale page yields no rows.
func (c *Controller) Rows() []pokeapi.NamedResource {
	if c.Stale() {
		return nil
	}
	rows := make([]pokeapi.NamedResource, 0, len(c.page.Rows))
	for _, r := range c.page.Rows {
		if c.query.FavoritesOnly && (c.favorites == nil || !c.favorites.IsFavorite(r.Name)) {
			continue
		}
		rows = append(rows, r)
	}

	switch c.query.Sort {
	case SortID:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID() < rows[j].ID() })
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return c.collator.CompareString(rows[i].Name, rows[j].Name) < 0
		})
	}
	return rows
}

// Range returns the 1-based span of the fetched page, or 0, 0 when empty or stale.
func (c *Controller) Range() (from, to int) {
	if c.Stale() || len(c.page.Rows) == 0 {
		return 0, 0
	}
	from = c.applied.Offset + 1
	return from, from + len(c.page.Rows) - 1
}

// Location renders the query as a list location with defaults omitted.
func (c *Controller) Location() route.Location {
	return route.List(c.query.Values())
}

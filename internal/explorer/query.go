package explorer

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/pokedex/internal/route"
)

// SortKey names a row ordering.
type SortKey string

const (
	SortName SortKey = "name"
	SortID   SortKey = "id"
)

var sortKeys = []SortKey{SortName, SortID}

// ParseSort returns the key named by s, or SortName and false when s is unknown.
func ParseSort(s string) (SortKey, bool) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range sortKeys {
		if k == key {
			return k, true
		}
	}
	return SortName, false
}

// Next returns the key after k in cycle order.
func (k SortKey) Next() SortKey {
	for i, candidate := range sortKeys {
		if candidate == k {
			return sortKeys[(i+1)%len(sortKeys)]
		}
	}
	return SortName
}

// Label is the short form shown in the header.
func (k SortKey) Label() string {
	switch k {
	case SortID:
		return "Number"
	default:
		return "Name"
	}
}

// Query is the list state that is reflected in the location.
type Query struct {
	Search        string
	Sort          SortKey
	FavoritesOnly bool
	Page          int
}

// DefaultQuery is the state of a bare "/" location.
func DefaultQuery() Query {
	return Query{Sort: SortName, Page: 1}
}

// FromValues reads a query from location parameters. Unrecognised or invalid
// values fall back to their defaults.
func FromValues(values url.Values) Query {
	q := DefaultQuery()
	q.Search = strings.TrimSpace(values.Get(route.ParamSearch))
	q.Sort, _ = ParseSort(values.Get(route.ParamSort))
	q.FavoritesOnly = values.Get(route.ParamFavorites) == "true"
	if n, err := strconv.Atoi(strings.TrimSpace(values.Get(route.ParamPage))); err == nil && n >= 1 {
		q.Page = n
	}
	return q
}

// Values encodes q, omitting parameters that hold their default.
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set(route.ParamSearch, q.Search)
	}
	if q.Sort != "" && q.Sort != SortName {
		values.Set(route.ParamSort, string(q.Sort))
	}
	if q.FavoritesOnly {
		values.Set(route.ParamFavorites, "true")
	}
	if q.Page > 1 {
		values.Set(route.ParamPage, strconv.Itoa(q.Page))
	}
	return values
}

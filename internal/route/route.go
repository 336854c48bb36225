// Package route models the viewer's locations: the list at "/" with its query
// parameters, and the detail view at "/pokemon/{name}".
package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnknownRoute is returned by Parse for paths other than the list and detail routes.
var ErrUnknownRoute = errors.New("unknown route")

// Query parameter names understood on the list route.
const (
	ParamSearch    = "q"
	ParamSort      = "sort"
	ParamFavorites = "favorites"
	ParamPage      = "page"
)

const (
	listPath     = "/"
	detailPrefix = "/pokemon/"
)

var listParams = []string{ParamSearch, ParamSort, ParamFavorites, ParamPage}

// Location is a parsed route plus its query parameters.
type Location struct {
	Path  string
	Query url.Values
}

// List returns the list location with values. Unknown keys and empty values are dropped.
func List(values url.Values) Location {
	q := url.Values{}
	for _, key := range listParams {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			q.Set(key, v)
		}
	}
	return Location{Path: listPath, Query: q}
}

// Detail returns the detail location for name.
func Detail(name string) Location {
	return Location{Path: detailPrefix + strings.ToLower(strings.TrimSpace(name)), Query: url.Values{}}
}

// Parse reads a location such as "/?q=char&page=2" or "/pokemon/pikachu".
// An empty string is the list root.
func Parse(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return List(nil), nil
	}
	if !strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "?") {
		raw = "/" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: %w", raw, err)
	}
	if u.IsAbs() || u.Host != "" {
		return Location{}, fmt.Errorf("%w: %q", ErrUnknownRoute, raw)
	}

	path := u.Path
	if path == "" {
		path = listPath
	}
	switch {
	case path == listPath:
		return List(u.Query()), nil
	case strings.HasPrefix(path, detailPrefix):
		name := strings.TrimSuffix(strings.TrimPrefix(path, detailPrefix), "/")
		if name == "" || strings.Contains(name, "/") {
			return Location{}, fmt.Errorf("%w: %q", ErrUnknownRoute, raw)
		}
		return Detail(name), nil
	default:
		return Location{}, fmt.Errorf("%w: %q", ErrUnknownRoute, raw)
	}
}

// MustParse is Parse for known-good constants.
func MustParse(raw string) Location {
	loc, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsList reports whether the location is the list route.
func (l Location) IsList() bool {
	return l.Path == listPath || l.Path == ""
}

// DetailName returns the item name of a detail location.
func (l Location) DetailName() (string, bool) {
	if !strings.HasPrefix(l.Path, detailPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(l.Path, detailPrefix)
	return name, name != ""
}

// String renders the location with its query, if any.
func (l Location) String() string {
	path := l.Path
	if path == "" {
		path = listPath
	}
	if len(l.Query) == 0 {
		return path
	}
	return path + "?" + l.Query.Encode()
}

// Equal compares path and rendered query.
func (l Location) Equal(other Location) bool {
	return l.String() == other.String()
}

// Package pokeapi provides a small read-only HTTP client for the PokeAPI v2
// endpoints the viewer needs.
//
// # API Endpoints
//
//   - GET /pokemon?offset=N&limit=M: Paged list of item references
//   - GET /pokemon/{name}: Full record for one item
//
// Every request sets Accept: application/json and a User-Agent header, waits
// on a token bucket limiter (golang.org/x/time/rate) so bursts of paging do
// not hammer the public API, and honours the caller's context.
//
// # Error Handling
//
// Responses with status >= 400 become *StatusError. A 404 matches
// errors.Is(err, ErrNotFound) so callers can render a dedicated not-found
// state. Network and decode failures are wrapped with fmt.Errorf.
//
// # Thread Safety
//
// Client is safe for concurrent use.
package pokeapi

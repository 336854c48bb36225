package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "pokeapi.co" || u.Path != "/api/v2" {
		t.Fatalf("default url = %q", u.String())
	}

	u, err = parseBaseURL("example.com:1234/api/v2/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Path != "/api/v2" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("expected error for missing host")
	}
}

func TestClient_ListAndGet(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotQuery url.Values
	var gotPath, gotUserAgent, gotAccept string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v2/pokemon":
			mu.Lock()
			gotQuery = r.URL.Query()
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(ResourceList{
				Count: 1302,
				Results: []NamedResource{
					{Name: "bulbasaur", URL: "https://pokeapi.co/api/v2/pokemon/1/"},
					{Name: "ivysaur", URL: "https://pokeapi.co/api/v2/pokemon/2/"},
				},
			})
		case "/api/v2/pokemon/pikachu":
			mu.Lock()
			gotPath = r.URL.Path
			mu.Unlock()
			_, _ = w.Write([]byte(`{"id":25,"name":"pikachu","height":4,"weight":60,
				"sprites":{"front_default":"sprite.png","other":{"official-artwork":{"front_default":"art.png"}}},
				"types":[{"slot":1,"type":{"name":"electric","url":""}}],
				"stats":[{"base_stat":90,"effort":2,"stat":{"name":"speed","url":""}}],
				"abilities":[{"is_hidden":true,"slot":3,"ability":{"name":"lightning-rod","url":""}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api/v2", WithRateLimit(0), WithUserAgent("pokedex-test"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	list, err := c.ListPokemon(ctx, 60, 30)
	if err != nil {
		t.Fatalf("ListPokemon returned error: %v", err)
	}
	if list.Count != 1302 || len(list.Results) != 2 {
		t.Fatalf("ListPokemon payload = %#v", list)
	}
	if list.Results[1].ID() != 2 {
		t.Fatalf("ID() = %d, want 2", list.Results[1].ID())
	}

	mon, err := c.GetPokemon(ctx, "  Pikachu ")
	if err != nil {
		t.Fatalf("GetPokemon returned error: %v", err)
	}
	if mon.ID != 25 || mon.ArtworkURL() != "art.png" {
		t.Fatalf("GetPokemon payload = %#v", mon)
	}
	if len(mon.Abilities) != 1 || !mon.Abilities[0].IsHidden {
		t.Fatalf("abilities = %#v, want hidden lightning-rod", mon.Abilities)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotQuery.Get("offset") != "60" || gotQuery.Get("limit") != "30" {
		t.Fatalf("list query = %v, want offset=60 limit=30", gotQuery)
	}
	if gotPath != "/api/v2/pokemon/pikachu" {
		t.Fatalf("detail path = %q, want lowercased name", gotPath)
	}
	if gotUserAgent != "pokedex-test" {
		t.Fatalf("User-Agent = %q, want pokedex-test", gotUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_NotFoundMatchesSentinel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithRateLimit(0))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.GetPokemon(context.Background(), "missingno")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPokemon error = %v, want ErrNotFound", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("error = %#v, want *StatusError 404", err)
	}
}

func TestClient_ServerErrorIsNotNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithRateLimit(0))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListPokemon(context.Background(), 0, 10)
	if err == nil {
		t.Fatalf("expected error for 500")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("500 should not match ErrNotFound")
	}
}

func TestClient_RejectsBadInput(t *testing.T) {
	c, err := NewClient("")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.ListPokemon(context.Background(), -1, 10); err == nil {
		t.Fatalf("expected error for negative offset")
	}
	if _, err := c.GetPokemon(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithRateLimit(0))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.ListPokemon(ctx, 0, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

type countingTransport struct {
	mu    sync.Mutex
	calls int
	next  http.RoundTripper
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return t.next.RoundTrip(r)
}

func TestClient_GetEscapesNameAsOneSegment(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotURI string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotURI = r.RequestURI
		mu.Unlock()
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	transport := &countingTransport{next: server.Client().Transport}
	c, err := NewClient(server.URL+"/api/v2", WithRateLimit(0), WithHTTPClient(&http.Client{Transport: transport}))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.GetPokemon(context.Background(), "a/b")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPokemon error = %v, want ErrNotFound", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if gotURI != "/api/v2/pokemon/a%2Fb" {
		t.Fatalf("request uri = %q", gotURI)
	}
	if transport.calls != 1 {
		t.Fatalf("custom http client used %d times, want 1", transport.calls)
	}
}

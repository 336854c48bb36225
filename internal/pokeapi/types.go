package pokeapi

import (
	"fmt"
	"strconv"
	"strings"
)

const spriteURLTemplate = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png"

// MaxBaseStat is the ceiling of a single base stat value.
const MaxBaseStat = 255

// ResourceList mirrors the paged payload returned by /pokemon.
type ResourceList struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// NamedResource is a reference to one catalog entry.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ID returns the numeric id encoded as the last path segment of URL, or 0.
func (r NamedResource) ID() int {
	parts := strings.Split(strings.TrimRight(r.URL, "/"), "/")
	if len(parts) == 0 {
		return 0
	}
	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// SpriteURL returns the default sprite for the referenced item, or "" when the id is unknown.
func (r NamedResource) SpriteURL() string {
	return SpriteURL(r.ID())
}

// SpriteURL builds the default sprite location for a numeric id.
func SpriteURL(id int) string {
	if id <= 0 {
		return ""
	}
	return fmt.Sprintf(spriteURLTemplate, id)
}

// Pokemon mirrors the detail payload returned by /pokemon/{name}.
type Pokemon struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Height         int           `json:"height"`
	Weight         int           `json:"weight"`
	BaseExperience int           `json:"base_experience"`
	Sprites        Sprites       `json:"sprites"`
	Types          []TypeSlot    `json:"types"`
	Stats          []StatValue   `json:"stats"`
	Abilities      []AbilitySlot `json:"abilities"`
}

// Sprites holds the image locations the viewer uses.
type Sprites struct {
	FrontDefault string       `json:"front_default"`
	FrontShiny   string       `json:"front_shiny"`
	Other        OtherSprites `json:"other"`
}

// OtherSprites groups alternate artwork sets.
type OtherSprites struct {
	OfficialArtwork Artwork `json:"official-artwork"`
}

// Artwork is a single artwork set.
type Artwork struct {
	FrontDefault string `json:"front_default"`
}

// TypeSlot is one entry of a Pokemon's type list.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// StatValue is one named base stat.
type StatValue struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// AbilitySlot is one named ability.
type AbilitySlot struct {
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
	Ability  NamedResource `json:"ability"`
}

// ArtworkURL prefers the high resolution official artwork and falls back to the default sprite.
func (p Pokemon) ArtworkURL() string {
	if art := strings.TrimSpace(p.Sprites.Other.OfficialArtwork.FrontDefault); art != "" {
		return art
	}
	return strings.TrimSpace(p.Sprites.FrontDefault)
}

// TypeNames returns the type names in slot order.
func (p Pokemon) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// HeightMeters converts the API's decimetres to metres.
func (p Pokemon) HeightMeters() float64 {
	return float64(p.Height) / 10
}

// WeightKilograms converts the API's hectograms to kilograms.
func (p Pokemon) WeightKilograms() float64 {
	return float64(p.Weight) / 10
}

// Fraction returns the stat as a share of MaxBaseStat, clamped to [0, 1].
func (s StatValue) Fraction() float64 {
	switch {
	case s.BaseStat <= 0:
		return 0
	case s.BaseStat >= MaxBaseStat:
		return 1
	}
	return float64(s.BaseStat) / MaxBaseStat
}

// Package world provides the village-scale terrain grid and the
// location bonuses it confers on nearby construction.
package world

import (
	"math"

	"github.com/talven/hearthold/internal/village"
)

// Terrain types for map tiles.
type Terrain uint8

const (
	TerrainMeadow Terrain = iota // open ground, default building land
	TerrainForest                // timber
	TerrainHills                 // stone and ore
	TerrainRiver                 // fresh water
	TerrainMarsh                 // poor footing
	TerrainRock                  // bare rock, unbuildable
)

var terrainNames = [...]string{
	TerrainMeadow: "Meadow",
	TerrainForest: "Forest",
	TerrainHills:  "Hills",
	TerrainRiver:  "River",
	TerrainMarsh:  "Marsh",
	TerrainRock:   "Rock",
}

// TerrainName returns a human-readable terrain name.
func TerrainName(t Terrain) string {
	if int(t) >= len(terrainNames) {
		return "Unknown"
	}
	return terrainNames[t]
}

// Feature is a fixed landmark that radiates a construction-speed aura.
type Feature uint8

const (
	FeatureNone        Feature = iota
	FeatureSpring              // fresh water close at hand
	FeatureAncientOak          // seasoned timber nearby
	FeatureStoneCircle         // dressed stone to quarry
)

// featureBonus is the flat construction-speed bonus a feature grants
// to tiles within its radius.
var featureBonus = map[Feature]float64{
	FeatureSpring:      0.15,
	FeatureAncientOak:  0.20,
	FeatureStoneCircle: 0.25,
}

// auraRadius is how far (Chebyshev distance) a feature's bonus reaches.
const auraRadius = 3

// maxAuraBonus caps the combined location bonus at +75%.
const maxAuraBonus = 0.75

// Tile is a single square of the village map.
type Tile struct {
	Position  village.Coord `json:"position"`
	Terrain   Terrain       `json:"terrain"`
	Elevation float64       `json:"elevation"` // 0.0–1.0
	Moisture  float64       `json:"moisture"`  // 0.0–1.0
	Feature   Feature       `json:"feature"`
}

// Map holds the terrain grid keyed by coordinate.
type Map struct {
	Tiles  map[village.Coord]*Tile
	Width  int
	Height int
}

// NewMap creates an empty map of the given dimensions.
func NewMap(width, height int) *Map {
	return &Map{
		Tiles:  make(map[village.Coord]*Tile, width*height),
		Width:  width,
		Height: height,
	}
}

// Get returns the tile at a coordinate, or nil outside the map.
func (m *Map) Get(c village.Coord) *Tile {
	return m.Tiles[c]
}

// Buildable reports whether a position can host a building.
func (m *Map) Buildable(c village.Coord) bool {
	t := m.Tiles[c]
	if t == nil {
		return false
	}
	return t.Terrain != TerrainRock && t.Terrain != TerrainRiver &&
		t.Terrain != TerrainMarsh
}

// AuraFactor returns the construction-speed factor at a position:
// 1 plus the sum of bonuses from features in range, the combined bonus
// capped at +75%. Always in [1, 1.75].
func (m *Map) AuraFactor(c village.Coord) float64 {
	bonus := 0.0
	for dx := -auraRadius; dx <= auraRadius; dx++ {
		for dy := -auraRadius; dy <= auraRadius; dy++ {
			t := m.Tiles[village.Coord{X: c.X + dx, Y: c.Y + dy}]
			if t == nil || t.Feature == FeatureNone {
				continue
			}
			bonus += featureBonus[t.Feature]
		}
	}
	return 1 + math.Min(bonus, maxAuraBonus)
}

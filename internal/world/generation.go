// Map generation using layered simplex noise: elevation and moisture
// fields derive terrain, then landmarks are scattered on a seeded RNG.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talven/hearthold/internal/village"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Width    int
	Height   int
	Seed     int64
	Features int // landmark count scattered across the map
}

// DefaultGenConfig returns a village-scale map configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{Width: 48, Height: 48, Seed: 0, Features: 6}
}

// Generate creates a complete terrain map. The same seed always yields
// the same map.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)
	rng := rand.New(rand.NewSource(seed + 2))

	m := NewMap(cfg.Width, cfg.Height)
	for x := 0; x < cfg.Width; x++ {
		for y := 0; y < cfg.Height; y++ {
			fx, fy := float64(x), float64(y)
			elev := octaveNoise(elevNoise, fx, fy, 4, 0.07, 0.5)
			moist := octaveNoise(moistNoise, fx, fy, 3, 0.05, 0.5)

			coord := village.Coord{X: x, Y: y}
			m.Tiles[coord] = &Tile{
				Position:  coord,
				Terrain:   deriveTerrain(elev, moist),
				Elevation: elev,
				Moisture:  moist,
			}
		}
	}

	scatterFeatures(m, rng, cfg.Features)
	return m
}

func deriveTerrain(elev, moist float64) Terrain {
	switch {
	case elev > 0.8:
		return TerrainRock
	case elev > 0.62:
		return TerrainHills
	case moist > 0.75 && elev < 0.35:
		return TerrainMarsh
	case moist > 0.68:
		return TerrainRiver
	case moist > 0.45 && elev > 0.4:
		return TerrainForest
	default:
		return TerrainMeadow
	}
}

// scatterFeatures places landmarks on buildable-adjacent terrain. Each
// feature kind favors the terrain it thematically belongs to.
func scatterFeatures(m *Map, rng *rand.Rand, count int) {
	kinds := []struct {
		feature Feature
		terrain Terrain
	}{
		{FeatureSpring, TerrainMeadow},
		{FeatureAncientOak, TerrainForest},
		{FeatureStoneCircle, TerrainHills},
	}

	placed := 0
	for attempts := 0; placed < count && attempts < count*50; attempts++ {
		k := kinds[rng.Intn(len(kinds))]
		c := village.Coord{X: rng.Intn(m.Width), Y: rng.Intn(m.Height)}
		t := m.Tiles[c]
		if t == nil || t.Feature != FeatureNone || t.Terrain != k.terrain {
			continue
		}
		t.Feature = k.feature
		placed++
	}
}

// octaveNoise sums multiple noise octaves for natural-looking fields.
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxValue := 0.0
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}
	return total / maxValue
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talven/hearthold/internal/village"
)

func newTestSim(t *testing.T) *Simulation {
	t.Helper()
	s := New(Config{Seed: 42, Name: "test", Population: 12, MapWidth: 24, MapHeight: 24})
	require.NotNil(t, s)
	require.GreaterOrEqual(t, len(s.Village.BuiltBuildings()), 1,
		"founding structures must exist")
	return s
}

func TestNew_DeterministicForSeed(t *testing.T) {
	a := New(Config{Seed: 7, Population: 10, MapWidth: 24, MapHeight: 24})
	b := New(Config{Seed: 7, Population: 10, MapWidth: 24, MapHeight: 24})

	require.Equal(t, len(a.Pool.Workers), len(b.Pool.Workers))
	for i := range a.Pool.Workers {
		assert.Equal(t, a.Pool.Workers[i].Name, b.Pool.Workers[i].Name)
	}
	assert.Equal(t, a.House.Name, b.House.Name)
}

func TestProcessDay_BuildersAssignedAndSiteAdvances(t *testing.T) {
	s := newTestSim(t)
	positions := s.BuildablePositions(3)
	require.NotEmpty(t, positions)

	b := s.StartConstruction(village.BuildingFarm, 1, positions[len(positions)-1])
	require.NotNil(t, b)
	site, ok := s.Construction.Site(b.ID)
	require.True(t, ok)

	result := s.ProcessDay()

	assert.Greater(t, result.AssignedWorkers, 0)
	assert.Greater(t, result.Construction.DailyProgress, 0.0)
	assert.Greater(t, site.CurrentPoints, 0.0)
	assert.InDelta(t, site.TotalPoints, site.CurrentPoints+site.PointsRemaining(), 1e-9)
}

func TestProcessDay_CompletionOpensJobsAndReassigns(t *testing.T) {
	s := newTestSim(t)
	positions := s.BuildablePositions(3)
	b := s.StartConstruction(village.BuildingFarm, 1, positions[len(positions)-1])
	require.NotNil(t, b)

	var completedDay int
	for day := 1; day <= 60; day++ {
		result := s.ProcessDay()
		if len(result.Construction.Completed) > 0 {
			completedDay = result.Day
			break
		}
	}
	require.NotZero(t, completedDay, "farm must finish within sixty days")
	assert.True(t, b.Built)
	_, active := s.Construction.Site(b.ID)
	assert.False(t, active)

	// Next day the farm's slots are filled and food flows.
	result := s.ProcessDay()
	assert.Greater(t, result.Production[village.ResourceFood], 0.0)
	assert.Greater(t, s.Jobs.Slots()[village.JobFarmer].Filled, 0)
}

func TestProcessDay_SiteInvariantsHoldEveryDay(t *testing.T) {
	s := newTestSim(t)
	positions := s.BuildablePositions(4)
	s.StartConstruction(village.BuildingFarm, 1, positions[2])
	s.StartConstruction(village.BuildingQuarry, 1, positions[3])

	prev := map[village.BuildingID]float64{}
	for day := 0; day < 40; day++ {
		s.ProcessDay()
		for _, site := range s.Construction.Sites() {
			assert.InDelta(t, site.TotalPoints,
				site.CurrentPoints+site.PointsRemaining(), 1e-9)
			assert.GreaterOrEqual(t, site.CurrentPoints, prev[site.BuildingID])
			assert.GreaterOrEqual(t, site.DailyProgress, 0.0)
			prev[site.BuildingID] = site.CurrentPoints
		}
	}
}

func TestProcessDay_DeterministicForSeed(t *testing.T) {
	run := func() []float64 {
		s := New(Config{Seed: 99, Population: 10, MapWidth: 24, MapHeight: 24})
		positions := s.BuildablePositions(3)
		s.StartConstruction(village.BuildingHouse, 1, positions[len(positions)-1])
		out := make([]float64, 0, 30)
		for day := 0; day < 30; day++ {
			r := s.ProcessDay()
			out = append(out, r.Construction.DailyProgress+r.Production[village.ResourceFood])
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestStartConstruction_RejectsUnbuildableGround(t *testing.T) {
	s := newTestSim(t)
	// Off-map coordinates are never buildable.
	b := s.StartConstruction(village.BuildingHouse, 1, village.Coord{X: -5, Y: -5})
	assert.Nil(t, b)
}

func TestProcessDay_TechnologyAdvancesOnLibrary(t *testing.T) {
	s := newTestSim(t)
	s.Village.AddStore(village.ResourceWood, 500)
	s.Village.AddStore(village.ResourceStone, 500)
	positions := s.BuildablePositions(3)
	b := s.StartConstruction(village.BuildingLibrary, 1, positions[len(positions)-1])
	require.NotNil(t, b)

	before := s.TechLevel
	for day := 0; day < 120 && !b.Built; day++ {
		s.ProcessDay()
	}
	require.True(t, b.Built, "library must finish within 120 days")
	assert.Equal(t, before+1, s.TechLevel)
}

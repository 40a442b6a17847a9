package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talven/hearthold/internal/engine"
	"github.com/talven/hearthold/internal/village"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newRunningSim(t *testing.T) *engine.Simulation {
	t.Helper()
	sim := engine.New(engine.Config{Seed: 42, Name: "Testhold", Population: 10, MapWidth: 24, MapHeight: 24})
	positions := sim.BuildablePositions(3)
	require.Len(t, positions, 3)
	require.NotNil(t, sim.StartConstruction(village.BuildingFarm, 1, positions[2]))
	for i := 0; i < 5; i++ {
		sim.ProcessDay()
	}
	return sim
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	sim := newRunningSim(t)

	require.NoError(t, db.SaveState(sim))
	require.True(t, db.HasState())

	loaded, err := db.LoadState()
	require.NoError(t, err)

	assert.Equal(t, sim.Day, loaded.Day)
	assert.Equal(t, sim.Seed(), loaded.Seed())
	assert.Equal(t, sim.TechLevel, loaded.TechLevel)
	assert.Equal(t, sim.Village.Name, loaded.Village.Name)
	assert.Equal(t, sim.Village.Stores, loaded.Village.Stores)
	assert.Equal(t, len(sim.Pool.Workers), len(loaded.Pool.Workers))
	assert.Equal(t, len(sim.Village.Buildings), len(loaded.Village.Buildings))
	require.Equal(t, len(sim.Construction.Sites()), len(loaded.Construction.Sites()))

	// Workers come back in insertion order with skills intact.
	for i, w := range sim.Pool.Workers {
		got := loaded.Pool.Workers[i]
		assert.Equal(t, w.ID, got.ID)
		assert.Equal(t, w.Name, got.Name)
		assert.Equal(t, w.AgeDays, got.AgeDays)
		assert.Equal(t, w.Skills, got.Skills)
		assert.Equal(t, w.Status, got.Status)
	}

	// Site progress survives exactly.
	for i, s := range sim.Construction.Sites() {
		got := loaded.Construction.Sites()[i]
		assert.Equal(t, s.BuildingID, got.BuildingID)
		assert.InDelta(t, s.TotalPoints, got.TotalPoints, 1e-9)
		assert.InDelta(t, s.CurrentPoints, got.CurrentPoints, 1e-9)
		assert.ElementsMatch(t, s.AssignedBuilders, got.AssignedBuilders)
	}

	assert.Equal(t, sim.Jobs.Assignments(), loaded.Jobs.Assignments())
}

func TestLoadedSimulation_KeepsAdvancing(t *testing.T) {
	db := openTestDB(t)
	sim := newRunningSim(t)
	require.NoError(t, db.SaveState(sim))

	loaded, err := db.LoadState()
	require.NoError(t, err)

	before := loaded.Day
	result := loaded.ProcessDay()
	assert.Equal(t, before+1, loaded.Day)
	assert.Equal(t, before+1, result.Day)
}

func TestSaveState_ReplacesPreviousSnapshot(t *testing.T) {
	db := openTestDB(t)
	sim := newRunningSim(t)

	require.NoError(t, db.SaveState(sim))
	sim.ProcessDay()
	sim.ProcessDay()
	require.NoError(t, db.SaveState(sim))

	loaded, err := db.LoadState()
	require.NoError(t, err)
	assert.Equal(t, sim.Day, loaded.Day)
	assert.Equal(t, len(sim.Pool.Workers), len(loaded.Pool.Workers))
}

func TestLoadState_SkipsInvalidWorkerRecords(t *testing.T) {
	db := openTestDB(t)
	sim := newRunningSim(t)
	require.NoError(t, db.SaveState(sim))

	// Corrupt one worker row: health way out of range.
	_, err := db.conn.Exec("UPDATE workers SET health = 900 WHERE id = ?", sim.Pool.Workers[0].ID)
	require.NoError(t, err)

	loaded, loadErr := db.LoadState()
	require.NoError(t, loadErr)
	assert.Equal(t, len(sim.Pool.Workers)-1, len(loaded.Pool.Workers))
}

func TestHasState_FalseOnFreshDB(t *testing.T) {
	db := openTestDB(t)
	assert.False(t, db.HasState())
}

func TestRecentEvents_PersistedWithSnapshot(t *testing.T) {
	db := openTestDB(t)
	sim := newRunningSim(t)
	require.NoError(t, db.SaveState(sim))

	events, err := db.RecentEvents(50)
	require.NoError(t, err)
	assert.Equal(t, len(sim.RecentEvents(50)), len(events))
}

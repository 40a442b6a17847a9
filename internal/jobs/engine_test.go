package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talven/hearthold/internal/skill"
	"github.com/talven/hearthold/internal/village"
	"github.com/talven/hearthold/internal/workforce"
)

func primeWorker(id string) *workforce.Worker {
	return &workforce.Worker{
		ID:        id,
		Name:      id,
		AgeDays:   30 * workforce.DaysPerYear,
		Health:    100,
		Happiness: 100,
		Skills:    make(map[skill.Name]int),
		Status:    workforce.StatusIdle,
	}
}

func builtBuilding(v *village.Village, t village.BuildingType) *village.Building {
	v.AddStore(village.ResourceWood, 1000)
	v.AddStore(village.ResourceStone, 1000)
	v.AddStore(village.ResourceOre, 1000)
	b := v.Place(t, 1, village.Coord{X: len(v.Buildings), Y: 0})
	b.Built = true
	return b
}

func TestUpdateAvailableJobs_Idempotent(t *testing.T) {
	pool := workforce.NewPool()
	vil := village.New("test")
	builtBuilding(vil, village.BuildingFarm)
	builtBuilding(vil, village.BuildingBuildersLodge)
	e := NewEngine(pool, vil)

	e.UpdateAvailableJobs()
	first := e.Slots()
	e.UpdateAvailableJobs()
	second := e.Slots()

	assert.Equal(t, first, second)
	assert.Equal(t, SlotCount{Total: 2}, first[village.JobFarmer])
	assert.Equal(t, SlotCount{Total: 3}, first[village.JobBuilder])
}

func TestAutoAssign_BuildersFilledFirst(t *testing.T) {
	pool := workforce.NewPool()
	vil := village.New("test")
	// Farm placed before the lodge; priority order must still send the
	// lone worker to the builder slot.
	builtBuilding(vil, village.BuildingFarm)
	builtBuilding(vil, village.BuildingBuildersLodge)
	e := NewEngine(pool, vil)
	e.UpdateAvailableJobs()

	w := primeWorker("only")
	pool.Add(w)

	assigned := e.AutoAssignWorkers()
	require.Equal(t, 1, assigned)
	require.NotNil(t, w.Assignment)
	assert.Equal(t, village.JobBuilder, w.Assignment.Job)
}

func TestAutoAssign_BuildingOrderThenFirstAvailable(t *testing.T) {
	pool := workforce.NewPool()
	vil := village.New("test")
	farmA := builtBuilding(vil, village.BuildingFarm)
	farmB := builtBuilding(vil, village.BuildingFarm)
	e := NewEngine(pool, vil)
	e.UpdateAvailableJobs()

	for _, id := range []string{"w1", "w2", "w3"} {
		pool.Add(primeWorker(id))
	}

	assigned := e.AutoAssignWorkers()
	assert.Equal(t, 3, assigned)

	a := e.Assignments()
	require.Len(t, a[farmA.ID][village.JobFarmer], 2)
	assert.Equal(t, []string{"w1", "w2"}, a[farmA.ID][village.JobFarmer])
	assert.Equal(t, []string{"w3"}, a[farmB.ID][village.JobFarmer])
}

func TestAutoAssign_NoOpenSlots(t *testing.T) {
	pool := workforce.NewPool()
	vil := village.New("test")
	e := NewEngine(pool, vil)
	e.UpdateAvailableJobs()
	pool.Add(primeWorker("w1"))

	assert.Equal(t, 0, e.AutoAssignWorkers())
}

func TestBuildersForSite_PoolsAllBuilderAssignees(t *testing.T) {
	pool := workforce.NewPool()
	vil := village.New("test")
	lodgeA := builtBuilding(vil, village.BuildingBuildersLodge)
	builtBuilding(vil, village.BuildingBuildersLodge)
	e := NewEngine(pool, vil)
	e.UpdateAvailableJobs()

	for _, id := range []string{"w1", "w2", "w3", "w4"} {
		pool.Add(primeWorker(id))
	}
	require.Equal(t, 4, e.AutoAssignWorkers())

	// All builder assignees are candidates, regardless of which lodge
	// employs them or which site is being asked about.
	builders := e.BuildersForSite(lodgeA.ID)
	require.Len(t, builders, 4)
	for _, b := range builders {
		assert.InDelta(t, 1.25, b.Effectiveness, 1e-9)
	}
}

func TestCalculateDailyProduction_SumsNonBuilderYields(t *testing.T) {
	pool := workforce.NewPool()
	vil := village.New("test")
	builtBuilding(vil, village.BuildingFarm)
	builtBuilding(vil, village.BuildingBuildersLodge)
	e := NewEngine(pool, vil)
	e.UpdateAvailableJobs()

	for _, id := range []string{"w1", "w2", "w3", "w4", "w5"} {
		pool.Add(primeWorker(id))
	}
	e.AutoAssignWorkers()

	prod := e.CalculateDailyProduction()
	// Three builders yield nothing; two farmers at effectiveness 1.0
	// produce 2.0 food each.
	assert.InDelta(t, 4.0, prod[village.ResourceFood], 1e-9)
	assert.Zero(t, prod[village.ResourceWood])
}

func TestForemanPresent(t *testing.T) {
	pool := workforce.NewPool()
	vil := village.New("test")
	builtBuilding(vil, village.BuildingKeep)
	e := NewEngine(pool, vil)
	e.UpdateAvailableJobs()

	assert.False(t, e.ForemanPresent())
	pool.Add(primeWorker("w1"))
	e.AutoAssignWorkers()
	assert.True(t, e.ForemanPresent())
}

func TestPrune_DeadWorkerFreesSlot(t *testing.T) {
	pool := workforce.NewPool()
	vil := village.New("test")
	builtBuilding(vil, village.BuildingFarm)
	e := NewEngine(pool, vil)
	e.UpdateAvailableJobs()

	w := primeWorker("w1")
	pool.Add(w)
	require.Equal(t, 1, e.AutoAssignWorkers())

	w.Status = workforce.StatusDead
	e.UpdateAvailableJobs()

	assert.Equal(t, 0, e.Slots()[village.JobFarmer].Filled)
	assert.Nil(t, w.Assignment)
}

func TestUnassign_UnknownWorkerIsNoOp(t *testing.T) {
	pool := workforce.NewPool()
	vil := village.New("test")
	e := NewEngine(pool, vil)
	e.Unassign("nobody")
}

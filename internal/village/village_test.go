package village

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stocked() *Village {
	v := New("Testhold")
	v.AddStore(ResourceWood, 500)
	v.AddStore(ResourceStone, 500)
	v.AddStore(ResourceOre, 100)
	return v
}

func TestPlace_ChargesMaterials(t *testing.T) {
	v := stocked()
	b := v.Place(BuildingHouse, 1, Coord{X: 3, Y: 4})
	require.NotNil(t, b)

	assert.Equal(t, BuildingID(1), b.ID)
	assert.False(t, b.Built)
	assert.Equal(t, Coord{X: 3, Y: 4}, b.Position)
	assert.InDelta(t, 480.0, v.Stores[ResourceWood], 1e-9)
	assert.InDelta(t, 495.0, v.Stores[ResourceStone], 1e-9)
}

func TestPlace_ScalesCostWithLevel(t *testing.T) {
	v := stocked()
	require.NotNil(t, v.Place(BuildingHouse, 3, Coord{}))
	assert.InDelta(t, 500.0-3*20, v.Stores[ResourceWood], 1e-9)
}

func TestPlace_RefusesWhenMaterialsShort(t *testing.T) {
	v := New("Broke")
	v.AddStore(ResourceWood, 5)

	assert.Nil(t, v.Place(BuildingHouse, 1, Coord{}))
	assert.InDelta(t, 5.0, v.Stores[ResourceWood], 1e-9)
	assert.Empty(t, v.Buildings)
}

func TestPlace_AssignsSequentialIDs(t *testing.T) {
	v := stocked()
	a := v.Place(BuildingHouse, 1, Coord{})
	b := v.Place(BuildingFarm, 1, Coord{X: 1})
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, a.ID+1, b.ID)

	got, ok := v.Get(b.ID)
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestRestore_KeepsIDCounterAhead(t *testing.T) {
	v := stocked()
	v.Restore(&Building{ID: 7, Type: BuildingHouse, Level: 1, Built: true})

	b := v.Place(BuildingFarm, 1, Coord{})
	require.NotNil(t, b)
	assert.Equal(t, BuildingID(8), b.ID)
}

func TestBuiltBuildings_FiltersAndKeepsOrder(t *testing.T) {
	v := stocked()
	a := v.Place(BuildingHouse, 1, Coord{})
	v.Place(BuildingFarm, 1, Coord{X: 1})
	c := v.Place(BuildingQuarry, 1, Coord{X: 2})
	a.Built = true
	c.Built = true

	built := v.BuiltBuildings()
	require.Len(t, built, 2)
	assert.Same(t, a, built[0])
	assert.Same(t, c, built[1])
}

func TestHousingCapacity(t *testing.T) {
	v := stocked()
	assert.Equal(t, 4, v.HousingCapacity(), "founding camp baseline")

	h1 := v.Place(BuildingHouse, 1, Coord{})
	h2 := v.Place(BuildingHouse, 2, Coord{X: 1})
	h1.Built = true
	h2.Built = true
	v.Place(BuildingHouse, 1, Coord{X: 2}) // still a site, no shelter yet

	assert.Equal(t, 4+4+8, v.HousingCapacity())
}

func TestCatalog_EveryTypeHasEntry(t *testing.T) {
	for bt := BuildingType(0); bt < NumBuildingTypes; bt++ {
		entry, ok := Catalog(bt)
		require.True(t, ok, "missing catalog entry for %s", bt.Name())
		assert.Greater(t, entry.BasePoints, 0.0, bt.Name())
		assert.GreaterOrEqual(t, entry.Difficulty, 1.0, bt.Name())
		assert.LessOrEqual(t, len(entry.RelevantSkills), 3, bt.Name())
	}
}

func TestSlotsFor_ScalesWithLevel(t *testing.T) {
	slots := SlotsFor(BuildingBuildersLodge, 2)
	assert.Equal(t, 6, slots[JobBuilder])

	assert.Nil(t, SlotsFor(BuildingHouse, 1), "houses offer no jobs")
}

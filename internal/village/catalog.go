// Static building catalog: work-point bases, costs, difficulty, skill
// relevance, and job slots. Consumed by the scheduler and job engine as
// lookup tables.
package village

import "github.com/talven/hearthold/internal/skill"

// CatalogEntry describes one building type.
type CatalogEntry struct {
	BasePoints float64              // work points at level 1, no technology
	BaseCost   map[Resource]float64 // materials charged at placement
	Difficulty float64              // scales construction XP awards
	// RelevantSkills are the skills trained by building this type, and
	// the skills counted toward builder effectiveness on its site.
	// At most three.
	RelevantSkills []skill.Name
	// Slots are worker openings the building provides per level once
	// built.
	Slots map[JobType]int
}

var catalog = map[BuildingType]CatalogEntry{
	BuildingHouse: {
		BasePoints:     25,
		BaseCost:       map[Resource]float64{ResourceWood: 20, ResourceStone: 5},
		Difficulty:     1.0,
		RelevantSkills: []skill.Name{skill.Construction, skill.Carpentry},
	},
	BuildingFarm: {
		BasePoints:     30,
		BaseCost:       map[Resource]float64{ResourceWood: 25},
		Difficulty:     1.0,
		RelevantSkills: []skill.Name{skill.Construction, skill.Carpentry},
		Slots:          map[JobType]int{JobFarmer: 2},
	},
	BuildingLumberCamp: {
		BasePoints:     30,
		BaseCost:       map[Resource]float64{ResourceWood: 15, ResourceStone: 5},
		Difficulty:     1.0,
		RelevantSkills: []skill.Name{skill.Construction, skill.Carpentry},
		Slots:          map[JobType]int{JobWoodcutter: 2},
	},
	BuildingQuarry: {
		BasePoints:     40,
		BaseCost:       map[Resource]float64{ResourceWood: 20, ResourceOre: 5},
		Difficulty:     1.2,
		RelevantSkills: []skill.Name{skill.Construction, skill.Masonry},
		Slots:          map[JobType]int{JobMason: 2},
	},
	BuildingMine: {
		BasePoints:     50,
		BaseCost:       map[Resource]float64{ResourceWood: 30, ResourceStone: 10},
		Difficulty:     1.3,
		RelevantSkills: []skill.Name{skill.Construction, skill.Mining},
		Slots:          map[JobType]int{JobMiner: 2},
	},
	BuildingBuildersLodge: {
		BasePoints:     35,
		BaseCost:       map[Resource]float64{ResourceWood: 30, ResourceStone: 10},
		Difficulty:     1.1,
		RelevantSkills: []skill.Name{skill.Construction, skill.Carpentry, skill.Masonry},
		Slots:          map[JobType]int{JobBuilder: 3},
	},
	BuildingWorkshop: {
		BasePoints:     45,
		BaseCost:       map[Resource]float64{ResourceWood: 35, ResourceStone: 15},
		Difficulty:     1.2,
		RelevantSkills: []skill.Name{skill.Construction, skill.Carpentry},
		Slots:          map[JobType]int{JobCrafter: 2},
	},
	BuildingBarracks: {
		BasePoints:     60,
		BaseCost:       map[Resource]float64{ResourceWood: 30, ResourceStone: 30},
		Difficulty:     1.4,
		RelevantSkills: []skill.Name{skill.Construction, skill.Masonry},
		Slots:          map[JobType]int{JobGuard: 2},
	},
	BuildingLibrary: {
		BasePoints:     55,
		BaseCost:       map[Resource]float64{ResourceWood: 25, ResourceStone: 25},
		Difficulty:     1.3,
		RelevantSkills: []skill.Name{skill.Construction, skill.Masonry, skill.Scholarship},
		Slots:          map[JobType]int{JobScholar: 1},
	},
	BuildingKeep: {
		BasePoints:     100,
		BaseCost:       map[Resource]float64{ResourceWood: 50, ResourceStone: 80},
		Difficulty:     1.5,
		RelevantSkills: []skill.Name{skill.Construction, skill.Masonry, skill.Leadership},
		Slots:          map[JobType]int{JobForeman: 1},
	},
}

// Catalog returns the entry for a building type. The second return is
// false for an unknown type; callers treat that as a soft failure.
func Catalog(t BuildingType) (CatalogEntry, bool) {
	e, ok := catalog[t]
	return e, ok
}

// BasePoints returns the level-1, zero-technology work-point total.
func BasePoints(t BuildingType) float64 {
	return catalog[t].BasePoints
}

// Difficulty returns the XP difficulty multiplier for a type (1.0 for
// unknown types so XP math stays safe).
func Difficulty(t BuildingType) float64 {
	e, ok := catalog[t]
	if !ok {
		return 1.0
	}
	return e.Difficulty
}

// RelevantSkills returns the skills trained by constructing a type.
func RelevantSkills(t BuildingType) []skill.Name {
	return catalog[t].RelevantSkills
}

// SlotsFor returns the worker openings a built building offers.
// Openings scale linearly with level.
func SlotsFor(t BuildingType, level int) map[JobType]int {
	e, ok := catalog[t]
	if !ok || len(e.Slots) == 0 {
		return nil
	}
	if level < 1 {
		level = 1
	}
	out := make(map[JobType]int, len(e.Slots))
	for job, n := range e.Slots {
		out[job] = n * level
	}
	return out
}

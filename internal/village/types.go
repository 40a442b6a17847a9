// Package village holds the settlement data model: buildings, the
// building catalog, job and resource enumerations, and the village
// aggregate itself.
package village

import "fmt"

// Coord is a tile position on the village map. Used directly as a map
// key; never encode positions as strings.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// BuildingID identifies a placed building.
type BuildingID uint64

// BuildingType enumerates constructible structures.
type BuildingType uint8

const (
	BuildingHouse BuildingType = iota
	BuildingFarm
	BuildingLumberCamp
	BuildingQuarry
	BuildingMine
	BuildingBuildersLodge
	BuildingWorkshop
	BuildingBarracks
	BuildingLibrary
	BuildingKeep
)

// NumBuildingTypes is the number of building types in the catalog.
const NumBuildingTypes = 10

var buildingNames = [...]string{
	BuildingHouse:         "House",
	BuildingFarm:          "Farm",
	BuildingLumberCamp:    "Lumber Camp",
	BuildingQuarry:        "Quarry",
	BuildingMine:          "Mine",
	BuildingBuildersLodge: "Builders' Lodge",
	BuildingWorkshop:      "Workshop",
	BuildingBarracks:      "Barracks",
	BuildingLibrary:       "Library",
	BuildingKeep:          "Keep",
}

// Name returns a human-readable building type name.
func (t BuildingType) Name() string {
	if int(t) >= len(buildingNames) {
		return "Unknown"
	}
	return buildingNames[t]
}

// Building is a placed structure. It is either fully built, or exactly
// one construction site elsewhere tracks its progress; never both.
type Building struct {
	ID       BuildingID   `json:"id"`
	Type     BuildingType `json:"type"`
	Level    int          `json:"level"` // >= 1
	Built    bool         `json:"built"`
	Position Coord        `json:"position"`

	// StartedDay marks when construction began; meaningful only while
	// unbuilt.
	StartedDay int `json:"started_day,omitempty"`
}

// JobType enumerates worker roles.
type JobType uint8

const (
	JobBuilder JobType = iota
	JobForeman
	JobFarmer
	JobWoodcutter
	JobMason
	JobMiner
	JobCrafter
	JobGuard
	JobScholar
)

// JobPriority is the fixed order auto-assignment fills roles in.
// Builders first: construction has priority over production.
var JobPriority = []JobType{
	JobBuilder,
	JobForeman,
	JobFarmer,
	JobWoodcutter,
	JobMason,
	JobMiner,
	JobCrafter,
	JobGuard,
	JobScholar,
}

var jobNames = [...]string{
	JobBuilder:    "builder",
	JobForeman:    "foreman",
	JobFarmer:     "farmer",
	JobWoodcutter: "woodcutter",
	JobMason:      "mason",
	JobMiner:      "miner",
	JobCrafter:    "crafter",
	JobGuard:      "guard",
	JobScholar:    "scholar",
}

// Name returns the lowercase role name.
func (j JobType) Name() string {
	if int(j) >= len(jobNames) {
		return "unknown"
	}
	return jobNames[j]
}

// JobTypeByName resolves a role name back to its JobType.
func JobTypeByName(name string) (JobType, bool) {
	for i, n := range jobNames {
		if n == name {
			return JobType(i), true
		}
	}
	return 0, false
}

// Resource enumerates stockpiled goods.
type Resource uint8

const (
	ResourceFood Resource = iota
	ResourceWood
	ResourceStone
	ResourceOre
	ResourceGoods
	ResourceKnowledge
)

// NumResources is the number of resource kinds.
const NumResources = 6

var resourceNames = [...]string{
	ResourceFood:      "food",
	ResourceWood:      "wood",
	ResourceStone:     "stone",
	ResourceOre:       "ore",
	ResourceGoods:     "goods",
	ResourceKnowledge: "knowledge",
}

// Name returns the lowercase resource name.
func (r Resource) Name() string {
	if int(r) >= len(resourceNames) {
		return "unknown"
	}
	return resourceNames[r]
}

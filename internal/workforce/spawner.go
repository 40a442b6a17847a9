// Worker spawning — creates the founding population and later arrivals
// with demographics and starting skills.
package workforce

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/talven/hearthold/internal/skill"
)

var givenNames = []string{
	"Aldric", "Berta", "Cedric", "Dagny", "Edwin", "Freya", "Gareth",
	"Hilda", "Ivo", "Jorunn", "Kale", "Liv", "Mabel", "Njord", "Osric",
	"Petra", "Quentin", "Runa", "Sten", "Tova", "Ulf", "Vigdis", "Wyn",
	"Ysolt",
}

var bynames = []string{
	"the Steady", "Ashhand", "of the Ford", "Oakenshield", "Greymantle",
	"the Younger", "Stonewright", "Fernfoot", "the Quiet", "Longstride",
	"Hearthborn", "of the Dale",
}

// Spawner creates workers with a seeded RNG so a given seed always
// yields the same founding population.
type Spawner struct {
	rng *rand.Rand
}

// NewSpawner creates a worker spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewSource(seed + 700))}
}

// SpawnFounders creates the starting population: working-age adults
// with a scattering of craft experience.
func (s *Spawner) SpawnFounders(count int) []*Worker {
	out := make([]*Worker, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.spawnOne(18, 45))
	}
	return out
}

// SpawnArrival creates a single newcomer, typically younger and
// greener than the founders.
func (s *Spawner) SpawnArrival() *Worker {
	return s.spawnOne(16, 35)
}

func (s *Spawner) spawnOne(minYears, maxYears int) *Worker {
	years := minYears + s.rng.Intn(maxYears-minYears+1)

	w := &Worker{
		ID:        uuid.NewString(),
		Name:      s.name(),
		AgeDays:   years*DaysPerYear + s.rng.Intn(DaysPerYear),
		Health:    float64(80 + s.rng.Intn(21)),
		Happiness: float64(60 + s.rng.Intn(31)),
		Skills:    make(map[skill.Name]int),
		Status:    StatusIdle,
	}

	// One or two starting crafts, Novice to low Apprentice.
	crafts := []skill.Name{
		skill.Construction, skill.Carpentry, skill.Masonry,
		skill.Farming, skill.Mining, skill.Combat,
	}
	for i := 0; i < 1+s.rng.Intn(2); i++ {
		c := crafts[s.rng.Intn(len(crafts))]
		w.Skills[c] += 20 + s.rng.Intn(130)
	}
	return w
}

func (s *Spawner) name() string {
	return fmt.Sprintf("%s %s",
		givenNames[s.rng.Intn(len(givenNames))],
		bynames[s.rng.Intn(len(bynames))])
}

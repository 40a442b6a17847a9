// Simulation ties the settlement systems together and advances them
// one day at a time. Everything runs synchronously inside ProcessDay;
// there is no concurrent writer anywhere in the core.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talven/hearthold/internal/construction"
	"github.com/talven/hearthold/internal/defense"
	"github.com/talven/hearthold/internal/dynasty"
	"github.com/talven/hearthold/internal/jobs"
	"github.com/talven/hearthold/internal/skill"
	"github.com/talven/hearthold/internal/village"
	"github.com/talven/hearthold/internal/workforce"
	"github.com/talven/hearthold/internal/world"
)

// maxTechLevel caps technology advancement.
const maxTechLevel = 10

// Event is a notable occurrence, kept in a bounded in-memory log.
type Event struct {
	Day         int    `json:"day"`
	Category    string `json:"category"` // "construction", "death", "arrival", "dynasty", "raid", "skill"
	Description string `json:"description"`
}

// maxEvents bounds the in-memory event log.
const maxEvents = 1000

// LevelUp records a worker crossing a skill threshold.
type LevelUp struct {
	WorkerID string     `json:"worker_id"`
	Name     string     `json:"name"`
	Skill    skill.Name `json:"skill"`
	Title    string     `json:"title"`
}

// DayResult is the synchronous outcome of one processed day. Callers
// render or persist it; the core never pushes to a side channel.
type DayResult struct {
	Day             int                          `json:"day"`
	Season          string                       `json:"season"`
	Construction    construction.DayReport       `json:"construction"`
	AssignedWorkers int                          `json:"assigned_workers"`
	Production      map[village.Resource]float64 `json:"production"`
	Deaths          []string                     `json:"deaths,omitempty"`
	Arrivals        []string                     `json:"arrivals,omitempty"`
	LevelUps        []LevelUp                    `json:"level_ups,omitempty"`
	Raid            *defense.RaidOutcome         `json:"raid,omitempty"`
	Successions     []dynasty.SuccessionEvent    `json:"successions,omitempty"`
}

// Simulation holds the complete settlement state and wires the
// subsystems together.
type Simulation struct {
	Village      *village.Village
	Pool         *workforce.Pool
	Jobs         *jobs.Engine
	Construction *construction.Scheduler
	Map          *world.Map
	House        *dynasty.House
	Spawner      *workforce.Spawner

	Day       int
	TechLevel int
	Events    []Event

	seed int64
	rng  *rand.Rand
}

// Config seeds a fresh simulation.
type Config struct {
	Seed       int64
	Name       string
	Population int
	TechLevel  int
	MapWidth   int
	MapHeight  int
}

// New creates a simulation with a generated map, a founding
// population, and a ruling house. Deterministic for a seed.
func New(cfg Config) *Simulation {
	if cfg.Population <= 0 {
		cfg.Population = 12
	}
	if cfg.MapWidth <= 0 || cfg.MapHeight <= 0 {
		cfg.MapWidth, cfg.MapHeight = 48, 48
	}
	if cfg.Name == "" {
		cfg.Name = "Hearthold"
	}

	gen := world.DefaultGenConfig()
	gen.Seed = cfg.Seed
	gen.Width, gen.Height = cfg.MapWidth, cfg.MapHeight

	vil := village.New(cfg.Name)
	pool := workforce.NewPool()
	spawner := workforce.NewSpawner(cfg.Seed)
	for _, w := range spawner.SpawnFounders(cfg.Population) {
		pool.Add(w)
	}

	s := &Simulation{
		Village:      vil,
		Pool:         pool,
		Jobs:         jobs.NewEngine(pool, vil),
		Construction: construction.NewScheduler(),
		Map:          world.Generate(gen),
		House:        dynasty.NewHouse(cfg.Seed, 0),
		Spawner:      spawner,
		TechLevel:    cfg.TechLevel,
		seed:         cfg.Seed,
		rng:          rand.New(rand.NewSource(cfg.Seed + 1)),
	}

	// Founding stores: enough to place the first few structures.
	vil.AddStore(village.ResourceFood, 120)
	vil.AddStore(village.ResourceWood, 150)
	vil.AddStore(village.ResourceStone, 80)

	s.placeFoundingStructures()
	return s
}

// placeFoundingStructures raises the camp the settlers arrive with: a
// house and a builders' lodge, already standing. Without the lodge no
// builder slots exist and nothing could ever be built.
func (s *Simulation) placeFoundingStructures() {
	positions := s.BuildablePositions(2)
	founding := []village.BuildingType{village.BuildingBuildersLodge, village.BuildingHouse}
	for i, t := range founding {
		if i >= len(positions) {
			slog.Warn("no buildable ground for founding structure", "type", t.Name())
			return
		}
		if b := s.Village.Place(t, 1, positions[i]); b != nil {
			b.Built = true
		}
	}
}

// BuildablePositions scans the map in row order for open ground, so
// founding placement is deterministic.
func (s *Simulation) BuildablePositions(n int) []village.Coord {
	out := make([]village.Coord, 0, n)
	for y := 0; y < s.Map.Height && len(out) < n; y++ {
		for x := 0; x < s.Map.Width && len(out) < n; x++ {
			c := village.Coord{X: x, Y: y}
			if s.Map.Buildable(c) && s.Map.Get(c) != nil {
				taken := false
				for _, b := range s.Village.Buildings {
					if b.Position == c {
						taken = true
						break
					}
				}
				if !taken {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

// Restore rebuilds a simulation around loaded state. The caller fills
// in village, pool, scheduler, and assignments afterwards.
func Restore(seed int64, day, techLevel int, name string) *Simulation {
	gen := world.DefaultGenConfig()
	gen.Seed = seed

	pool := workforce.NewPool()
	vil := village.New(name)
	return &Simulation{
		Village:      vil,
		Pool:         pool,
		Jobs:         jobs.NewEngine(pool, vil),
		Construction: construction.NewScheduler(),
		Map:          world.Generate(gen),
		House:        dynasty.NewHouse(seed, 0),
		Spawner:      workforce.NewSpawner(seed),
		Day:          day,
		TechLevel:    techLevel,
		seed:         seed,
		rng:          rand.New(rand.NewSource(seed + 1 + int64(day))),
	}
}

// Seed returns the world seed.
func (s *Simulation) Seed() int64 { return s.seed }

// Season returns the current season.
func (s *Simulation) Season() Season { return SeasonFor(s.Day) }

// StartConstruction places a building and opens its site. Returns nil
// on unbuildable ground or short materials.
func (s *Simulation) StartConstruction(t village.BuildingType, level int, pos village.Coord) *village.Building {
	if s.Map != nil && !s.Map.Buildable(pos) {
		slog.Warn("start construction: unbuildable position", "position", pos)
		return nil
	}
	b := s.Village.Place(t, level, pos)
	if b == nil {
		return nil
	}
	s.Construction.StartSite(b, s.TechLevel, s.Day)
	return b
}

// ProcessDay advances the simulation exactly one day and returns the
// day's outcome. The pass order is load-bearing: slot recomputation
// precedes assignment, which precedes construction, so completion
// side effects always see fresh slot counts.
func (s *Simulation) ProcessDay() DayResult {
	s.Day++
	season := s.Season()
	result := DayResult{
		Day:    s.Day,
		Season: season.Name(),
	}

	// Population first: today's workforce is whoever survives the
	// morning.
	result.Deaths = s.processPopulation()

	s.Jobs.UpdateAvailableJobs()
	result.AssignedWorkers = s.Jobs.AutoAssignWorkers()

	result.Construction = s.processConstruction(season, &result)

	// Production is credited after construction so a building finished
	// today starts producing tomorrow, not retroactively.
	result.Production = s.Jobs.CalculateDailyProduction()
	s.creditProduction(result.Production, season)

	result.Raid = s.processDefense(season)
	result.Successions = s.House.ProcessDay(s.Day)
	for _, ev := range result.Successions {
		if ev.Successor == "" {
			s.record("dynasty", fmt.Sprintf("%s has died; the line of %s is ended", ev.Deceased, s.House.Name))
		} else {
			s.record("dynasty", fmt.Sprintf("%s has died; %s takes the seat", ev.Deceased, ev.Successor))
		}
	}

	result.Arrivals = s.processArrivals()

	slog.Info("day processed",
		"day", s.Day,
		"season", result.Season,
		"alive", s.Pool.Alive(),
		"assigned", result.AssignedWorkers,
		"daily_progress", result.Construction.DailyProgress,
		"completed", len(result.Construction.Completed),
	)
	return result
}

func (s *Simulation) processConstruction(season Season, result *DayResult) construction.DayReport {
	levelUps := &result.LevelUps
	in := construction.DayInput{
		Day:              s.Day,
		SeasonMultiplier: season.ConstructionMultiplier(),
		TechLevel:        s.TechLevel,
		ForemanPresent:   s.Jobs.ForemanPresent(),
		Builders:         s.Jobs.BuildersForSite,
		AuraFactor:       s.Map.AuraFactor,
		Lookup:           s.Village.Get,
		Rand:             s.rng,
		AwardXP: func(workerID string, sk skill.Name, amount int) {
			up, ok := s.Pool.AwardExperience(workerID, sk, amount)
			if !ok || !up {
				return
			}
			w, _ := s.Pool.Get(workerID)
			rating := skill.Rate(w.XP(sk))
			*levelUps = append(*levelUps, LevelUp{
				WorkerID: workerID,
				Name:     w.Name,
				Skill:    sk,
				Title:    rating.Title,
			})
			s.record("skill", fmt.Sprintf("%s is now a %s %s", w.Name, rating.Title, sk))
		},
	}

	report := s.Construction.ProcessDailyConstruction(in)

	for _, c := range report.Completed {
		s.record("construction", fmt.Sprintf("%s (level %d) completed", c.BuildingType.Name(), c.Level))
		s.applyTechnology(c.BuildingType)
	}
	if len(report.Completed) > 0 {
		// New buildings open new slots; re-optimize immediately so the
		// rest of the day sees the updated assignments.
		s.Jobs.UpdateAvailableJobs()
		result.AssignedWorkers += s.Jobs.AutoAssignWorkers()
	}
	return report
}

// applyTechnology advances the tech level when knowledge buildings
// finish.
func (s *Simulation) applyTechnology(t village.BuildingType) {
	if t != village.BuildingWorkshop && t != village.BuildingLibrary {
		return
	}
	if s.TechLevel >= maxTechLevel {
		return
	}
	s.TechLevel++
	slog.Info("technology advanced", "level", s.TechLevel)
}

func (s *Simulation) creditProduction(prod map[village.Resource]float64, season Season) {
	for res, amount := range prod {
		if res == village.ResourceFood {
			amount *= season.HarvestMultiplier()
		}
		s.Village.AddStore(res, amount)
	}
}

func (s *Simulation) processDefense(season Season) *defense.RaidOutcome {
	if !season.RaidSeason() || s.rng.Float64() > 0.04 {
		return nil
	}

	garrison := 0.0
	for _, w := range s.Pool.Workers {
		if w.Alive() && w.Assignment != nil && w.Assignment.Job == village.JobGuard {
			garrison += s.Pool.Effectiveness(w, village.JobGuard)
		}
	}

	out := defense.ResolveRaid(s.rng, s.Day, garrison, s.Village.WallLevel,
		s.Village.Stores[village.ResourceFood])
	s.Village.Stores[village.ResourceFood] -= out.FoodLost

	// Wounds land on whoever is standing closest, defenders first.
	wounded := out.Wounded
	for _, w := range s.Pool.Workers {
		if wounded == 0 {
			break
		}
		if !w.Alive() {
			continue
		}
		w.Health -= 25
		if w.Health < 5 {
			w.Health = 5
		}
		wounded--
	}

	if out.Repelled {
		s.record("raid", "a raiding party was driven off")
	} else {
		s.record("raid", fmt.Sprintf("raiders broke through, carrying off %.0f food", out.FoodLost))
	}
	return &out
}

func (s *Simulation) processArrivals() []string {
	if s.Pool.Alive() >= s.Village.HousingCapacity() {
		return nil
	}
	if s.rng.Float64() > 0.03 {
		return nil
	}
	w := s.Spawner.SpawnArrival()
	s.Pool.Add(w)
	s.record("arrival", fmt.Sprintf("%s arrived seeking work", w.Name))
	return []string{w.Name}
}

func (s *Simulation) record(category, description string) {
	s.Events = append(s.Events, Event{
		Day:         s.Day,
		Category:    category,
		Description: description,
	})
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

// RecentEvents returns up to n most recent events, newest last.
func (s *Simulation) RecentEvents(n int) []Event {
	if n <= 0 || n > len(s.Events) {
		n = len(s.Events)
	}
	return s.Events[len(s.Events)-n:]
}

// Package jobs matches worker slots opened by completed buildings
// against the worker pool, keeps the canonical assignment map, and
// totals daily resource production.
package jobs

import (
	"log/slog"

	"github.com/talven/hearthold/internal/village"
	"github.com/talven/hearthold/internal/workforce"
)

// jobYields maps production roles to the resource they generate per
// point of effectiveness per day. Builders advance construction sites
// instead; foremen and guards yield no goods.
var jobYields = map[village.JobType]struct {
	Resource village.Resource
	Rate     float64
}{
	village.JobFarmer:     {village.ResourceFood, 2.0},
	village.JobWoodcutter: {village.ResourceWood, 1.5},
	village.JobMason:      {village.ResourceStone, 1.2},
	village.JobMiner:      {village.ResourceOre, 1.0},
	village.JobCrafter:    {village.ResourceGoods, 0.8},
	village.JobScholar:    {village.ResourceKnowledge, 0.5},
}

// SlotCount tracks openings for one job type.
type SlotCount struct {
	Total  int `json:"total"`
	Filled int `json:"filled"`
}

// SiteBuilder is one builder candidate for the construction scheduler.
type SiteBuilder struct {
	WorkerID      string  `json:"worker_id"`
	Effectiveness float64 `json:"effectiveness"`
}

// Engine owns the canonical worker↔(building, role) assignment map.
// Workers carry a back-reference for display only.
type Engine struct {
	pool *workforce.Pool
	vil  *village.Village

	slots       map[village.JobType]*SlotCount
	assignments map[village.BuildingID]map[village.JobType][]string
}

// NewEngine creates a job engine over a pool and village.
func NewEngine(pool *workforce.Pool, vil *village.Village) *Engine {
	return &Engine{
		pool:        pool,
		vil:         vil,
		slots:       make(map[village.JobType]*SlotCount),
		assignments: make(map[village.BuildingID]map[village.JobType][]string),
	}
}

// UpdateAvailableJobs recomputes slot counts from the set of completed
// buildings and prunes assignments that no longer point at a living
// worker or a built building. Idempotent; safe to call every tick.
func (e *Engine) UpdateAvailableJobs() {
	e.pruneAssignments()

	slots := make(map[village.JobType]*SlotCount)
	for _, b := range e.vil.BuiltBuildings() {
		for job, n := range village.SlotsFor(b.Type, b.Level) {
			sc, ok := slots[job]
			if !ok {
				sc = &SlotCount{}
				slots[job] = sc
			}
			sc.Total += n
		}
	}
	for _, byJob := range e.assignments {
		for job, workers := range byJob {
			sc, ok := slots[job]
			if !ok {
				sc = &SlotCount{}
				slots[job] = sc
			}
			sc.Filled += len(workers)
		}
	}
	e.slots = slots
}

// pruneAssignments drops stale entries: dead workers, demolished or
// unbuilt buildings. Back-references are cleared with them.
func (e *Engine) pruneAssignments() {
	for bid, byJob := range e.assignments {
		b, ok := e.vil.Get(bid)
		if !ok || !b.Built {
			for _, workers := range byJob {
				for _, wid := range workers {
					if w, found := e.pool.Get(wid); found {
						w.Assignment = nil
						if w.Status == workforce.StatusWorking {
							w.Status = workforce.StatusIdle
						}
					}
				}
			}
			delete(e.assignments, bid)
			continue
		}
		for job, workers := range byJob {
			kept := workers[:0]
			for _, wid := range workers {
				w, found := e.pool.Get(wid)
				if found && w.Alive() {
					kept = append(kept, wid)
					continue
				}
				if found {
					w.Assignment = nil
				}
			}
			if len(kept) == 0 {
				delete(byJob, job)
			} else {
				byJob[job] = kept
			}
		}
		if len(byJob) == 0 {
			delete(e.assignments, bid)
		}
	}
}

// AutoAssignWorkers greedily fills open slots and returns how many
// workers were assigned. Job types are processed in the fixed priority
// order (builders first), slots in building placement order, and each
// slot takes the first available worker. A deliberate heuristic, not
// an optimizer.
func (e *Engine) AutoAssignWorkers() int {
	available := e.pool.AvailableWorkers()
	assigned := 0

	for _, job := range village.JobPriority {
		for _, b := range e.vil.BuiltBuildings() {
			capacity := village.SlotsFor(b.Type, b.Level)[job]
			if capacity == 0 {
				continue
			}
			for len(e.assignmentsFor(b.ID, job)) < capacity && len(available) > 0 {
				w := available[0]
				available = available[1:]
				e.assign(w, b.ID, job)
				assigned++
			}
			if len(available) == 0 {
				return assigned
			}
		}
	}
	return assigned
}

func (e *Engine) assignmentsFor(bid village.BuildingID, job village.JobType) []string {
	byJob, ok := e.assignments[bid]
	if !ok {
		return nil
	}
	return byJob[job]
}

func (e *Engine) assign(w *workforce.Worker, bid village.BuildingID, job village.JobType) {
	byJob, ok := e.assignments[bid]
	if !ok {
		byJob = make(map[village.JobType][]string)
		e.assignments[bid] = byJob
	}
	byJob[job] = append(byJob[job], w.ID)
	w.Assignment = &workforce.Assignment{Building: bid, Job: job}
	w.Status = workforce.StatusWorking

	if sc, found := e.slots[job]; found {
		sc.Filled++
	}
}

// Unassign releases a worker from their current job. Unknown workers
// are a no-op.
func (e *Engine) Unassign(workerID string) {
	w, ok := e.pool.Get(workerID)
	if !ok {
		slog.Warn("unassign: unknown worker", "worker", workerID)
		return
	}
	if w.Assignment == nil {
		return
	}
	byJob, found := e.assignments[w.Assignment.Building]
	if found {
		workers := byJob[w.Assignment.Job]
		for i, wid := range workers {
			if wid == workerID {
				byJob[w.Assignment.Job] = append(workers[:i], workers[i+1:]...)
				break
			}
		}
		if len(byJob[w.Assignment.Job]) == 0 {
			delete(byJob, w.Assignment.Job)
		}
	}
	if sc, found := e.slots[w.Assignment.Job]; found && sc.Filled > 0 {
		sc.Filled--
	}
	w.Assignment = nil
	if w.Alive() {
		w.Status = workforce.StatusIdle
	}
}

// BuildersForSite returns builder candidates for the day's priority
// site. Builder slots are global: every builder-role assignee is a
// candidate regardless of which building employs them; the scheduler
// caps how many count as productive for the site.
func (e *Engine) BuildersForSite(_ village.BuildingID) []SiteBuilder {
	out := []SiteBuilder{}
	for _, b := range e.vil.Buildings {
		workers, ok := e.assignments[b.ID]
		if !ok {
			continue
		}
		for _, wid := range workers[village.JobBuilder] {
			w, found := e.pool.Get(wid)
			if !found || !w.Alive() {
				continue
			}
			out = append(out, SiteBuilder{
				WorkerID:      wid,
				Effectiveness: e.pool.Effectiveness(w, village.JobBuilder),
			})
		}
	}
	return out
}

// ForemanPresent reports whether any worker anywhere holds the foreman
// role. A single foreman boosts every site in the settlement.
func (e *Engine) ForemanPresent() bool {
	for _, byJob := range e.assignments {
		if len(byJob[village.JobForeman]) > 0 {
			return true
		}
	}
	return false
}

// CalculateDailyProduction sums effectiveness × role yield across all
// filled non-builder assignments.
func (e *Engine) CalculateDailyProduction() map[village.Resource]float64 {
	out := make(map[village.Resource]float64)
	for _, b := range e.vil.Buildings {
		byJob, ok := e.assignments[b.ID]
		if !ok {
			continue
		}
		for job, workers := range byJob {
			yield, produces := jobYields[job]
			if !produces {
				continue
			}
			for _, wid := range workers {
				w, found := e.pool.Get(wid)
				if !found || !w.Alive() {
					continue
				}
				out[yield.Resource] += e.pool.Effectiveness(w, job) * yield.Rate
			}
		}
	}
	return out
}

// Slots returns the current per-role opening counts.
func (e *Engine) Slots() map[village.JobType]SlotCount {
	out := make(map[village.JobType]SlotCount, len(e.slots))
	for job, sc := range e.slots {
		out[job] = *sc
	}
	return out
}

// Assignments exposes the canonical assignment map for persistence.
func (e *Engine) Assignments() map[village.BuildingID]map[village.JobType][]string {
	return e.assignments
}

// RestoreAssignment re-creates one assignment from persisted state,
// skipping entries whose worker or building no longer resolves.
func (e *Engine) RestoreAssignment(bid village.BuildingID, job village.JobType, workerID string) {
	w, ok := e.pool.Get(workerID)
	if !ok {
		slog.Warn("restore assignment: unknown worker", "worker", workerID)
		return
	}
	if _, found := e.vil.Get(bid); !found {
		slog.Warn("restore assignment: unknown building", "building", bid)
		return
	}
	e.assign(w, bid, job)
}

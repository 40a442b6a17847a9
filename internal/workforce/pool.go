package workforce

import (
	"log/slog"

	"github.com/talven/hearthold/internal/skill"
	"github.com/talven/hearthold/internal/village"
)

// jobBaseRate is the role-specific base output in points (or goods) per
// day before modifiers.
var jobBaseRate = map[village.JobType]float64{
	village.JobBuilder:    1.25,
	village.JobForeman:    1.0,
	village.JobFarmer:     1.0,
	village.JobWoodcutter: 1.1,
	village.JobMason:      1.0,
	village.JobMiner:      0.9,
	village.JobCrafter:    1.0,
	village.JobGuard:      1.0,
	village.JobScholar:    0.8,
}

// jobMinRate floors effectiveness so even a frail worker contributes.
var jobMinRate = map[village.JobType]float64{
	village.JobBuilder: 0.5,
}

const defaultMinRate = 0.4

// jobSkills lists up to three skills counted toward a role's
// effectiveness bonus.
var jobSkills = map[village.JobType][]skill.Name{
	village.JobBuilder:    {skill.Construction, skill.Carpentry, skill.Masonry},
	village.JobForeman:    {skill.Leadership, skill.Construction},
	village.JobFarmer:     {skill.Farming},
	village.JobWoodcutter: {skill.Carpentry},
	village.JobMason:      {skill.Masonry},
	village.JobMiner:      {skill.Mining},
	village.JobCrafter:    {skill.Carpentry, skill.Masonry},
	village.JobGuard:      {skill.Combat},
	village.JobScholar:    {skill.Scholarship},
}

// Pool holds every inhabitant in insertion order. Insertion order is
// not meaningful but must be stable so assignment is deterministic.
type Pool struct {
	Workers []*Worker
	index   map[string]*Worker
}

// NewPool creates an empty worker pool.
func NewPool() *Pool {
	return &Pool{index: make(map[string]*Worker)}
}

// Add appends a worker to the pool.
func (p *Pool) Add(w *Worker) {
	p.Workers = append(p.Workers, w)
	p.index[w.ID] = w
}

// Get returns the worker with the given ID, or (nil, false).
func (p *Pool) Get(id string) (*Worker, bool) {
	w, ok := p.index[id]
	return w, ok
}

// Alive returns the number of living workers.
func (p *Pool) Alive() int {
	n := 0
	for _, w := range p.Workers {
		if w.Alive() {
			n++
		}
	}
	return n
}

// AvailableWorkers returns living workers with no active assignment,
// in insertion order.
func (p *Pool) AvailableWorkers() []*Worker {
	out := make([]*Worker, 0, len(p.Workers))
	for _, w := range p.Workers {
		if !w.Alive() {
			continue
		}
		if w.Assignment == nil || w.Status == StatusIdle {
			out = append(out, w)
		}
	}
	return out
}

// Effectiveness computes a worker's daily output rate for a role.
//
// Base rate × skill bonus × age factor × health factor × happiness
// factor, floored at the role minimum. The skill bonus averages the
// per-level bonuses of the role's relevant skills the worker actually
// possesses; a worker with none of them gets no bonus and no penalty.
func (p *Pool) Effectiveness(w *Worker, job village.JobType) float64 {
	base, ok := jobBaseRate[job]
	if !ok {
		base = 1.0
	}

	eff := base * skillFactor(w, job) * ageFactor(w.AgeYears()) *
		healthFactor(w.Health) * happinessFactor(w.Happiness)

	min, ok := jobMinRate[job]
	if !ok {
		min = defaultMinRate
	}
	if eff < min {
		eff = min
	}
	return eff
}

func skillFactor(w *Worker, job village.JobType) float64 {
	relevant := jobSkills[job]
	sum := 0.0
	possessed := 0
	for _, s := range relevant {
		xp, ok := w.Skills[s]
		if !ok || xp <= 0 {
			continue
		}
		sum += skill.Bonus(xp)
		possessed++
	}
	if possessed == 0 {
		return 1.0
	}
	return 1.0 + sum/float64(possessed)
}

func ageFactor(years int) float64 {
	switch {
	case years < 18:
		return 0.8
	case years <= 24:
		return 0.95
	case years <= 45:
		return 1.0
	case years <= 60:
		return 0.98
	default:
		return 0.9
	}
}

func healthFactor(health float64) float64 {
	f := health / 100
	if f < 0.8 {
		return 0.8
	}
	return f
}

func happinessFactor(happiness float64) float64 {
	f := happiness / 100
	if f < 0.9 {
		return 0.9
	}
	return f
}

// AwardExperience adds XP to one of a worker's skills and reports
// whether a level threshold was crossed. Unknown worker IDs are a
// no-op returning (false, false).
func (p *Pool) AwardExperience(id string, s skill.Name, amount int) (leveledUp, ok bool) {
	w, found := p.index[id]
	if !found {
		slog.Warn("award experience: unknown worker", "worker", id)
		return false, false
	}
	if amount <= 0 {
		return false, true
	}
	if w.Skills == nil {
		w.Skills = make(map[skill.Name]int)
	}
	before := skill.LevelFor(w.Skills[s])
	w.Skills[s] += amount
	after := skill.LevelFor(w.Skills[s])
	return after > before, true
}

package construction

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/talven/hearthold/internal/jobs"
	"github.com/talven/hearthold/internal/skill"
	"github.com/talven/hearthold/internal/village"
)

// DayInput carries everything the scheduler needs for one day's pass.
// Collaborators are passed as functions so the scheduler never reaches
// into the job engine or world directly.
type DayInput struct {
	Day              int
	SeasonMultiplier float64
	TechLevel        int
	ForemanPresent   bool

	// Builders enumerates builder candidates for a site.
	Builders func(village.BuildingID) []jobs.SiteBuilder
	// AuraFactor is the location construction-speed factor at a
	// position, already clamped to [1, 1.75].
	AuraFactor func(village.Coord) float64
	// Lookup resolves a building ID; a failed lookup during completion
	// aborts that day's completion, never the process.
	Lookup func(village.BuildingID) (*village.Building, bool)
	// AwardXP credits construction experience to a builder.
	AwardXP func(workerID string, s skill.Name, amount int)

	Rand *rand.Rand
}

// Completion describes a building finished this day.
type Completion struct {
	BuildingID   village.BuildingID   `json:"building_id"`
	BuildingType village.BuildingType `json:"building_type"`
	Level        int                  `json:"level"`
	Day          int                  `json:"day"`
}

// DayReport is the synchronous result of a daily pass. Completions are
// returned to the caller instead of being emitted on a side channel.
type DayReport struct {
	WorkedSite        village.BuildingID `json:"worked_site,omitempty"`
	DailyProgress     float64            `json:"daily_progress"`
	EffectiveBuilders int                `json:"effective_builders"`
	ExcessBuilders    int                `json:"excess_builders"`
	Completed         []Completion       `json:"completed,omitempty"`
}

// Scheduler holds one active site per in-progress building, in
// creation order. The first site with work remaining is each day's
// sole priority.
type Scheduler struct {
	sites map[village.BuildingID]*Site
	order []village.BuildingID
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{sites: make(map[village.BuildingID]*Site)}
}

// StartSite opens a construction site for an unbuilt building. Returns
// nil if the building is already built or already has a site.
func (s *Scheduler) StartSite(b *village.Building, techLevel, day int) *Site {
	if b == nil {
		return nil
	}
	if b.Built {
		slog.Warn("start site: building already built", "building", b.ID)
		return nil
	}
	if _, exists := s.sites[b.ID]; exists {
		slog.Warn("start site: site already active", "building", b.ID)
		return nil
	}

	site := &Site{
		BuildingID:   b.ID,
		BuildingType: b.Type,
		Level:        b.Level,
		TotalPoints:  TotalPointsFor(b.Type, b.Level, techLevel),
		StartDay:     day,
		TechDiscount: float64(techLevel) * 0.05,
		Status:       StatusActive,
	}
	b.StartedDay = day
	s.sites[b.ID] = site
	s.order = append(s.order, b.ID)
	return site
}

// Restore re-inserts a site loaded from persistence.
func (s *Scheduler) Restore(site *Site) {
	if _, exists := s.sites[site.BuildingID]; exists {
		return
	}
	s.sites[site.BuildingID] = site
	s.order = append(s.order, site.BuildingID)
}

// Site returns the active site for a building, or (nil, false).
func (s *Scheduler) Site(id village.BuildingID) (*Site, bool) {
	site, ok := s.sites[id]
	return site, ok
}

// Sites returns active sites in creation order.
func (s *Scheduler) Sites() []*Site {
	out := make([]*Site, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sites[id])
	}
	return out
}

// PrioritySite returns the day's single focus: the first registered
// site. Every registered site still has work outstanding — a site is
// removed exactly on successful completion, so one whose points are
// already in place is awaiting a finalize retry after a failed
// building lookup and must stay selectable.
func (s *Scheduler) PrioritySite() *Site {
	if len(s.order) == 0 {
		return nil
	}
	return s.sites[s.order[0]]
}

// ProcessDailyConstruction advances the priority site by one day.
//
// The crew is capped at ceil(remaining / average effectiveness):
// builders beyond what the site can absorb today count as excess and
// contribute nothing. The capped crew sum is then scaled by foreman,
// teamwork, season, technology, and location factors.
func (s *Scheduler) ProcessDailyConstruction(in DayInput) DayReport {
	site := s.PrioritySite()
	if site == nil {
		return DayReport{}
	}
	report := DayReport{WorkedSite: site.BuildingID}

	// Forced snap: a near-finished tail completes today regardless of
	// staffing or computed progress.
	if site.PointsRemaining() <= snapPoints {
		site.CurrentPoints = site.TotalPoints
		s.finalize(site, &in, &report)
		return report
	}

	builders := in.Builders(site.BuildingID)
	if len(builders) == 0 {
		site.AssignedBuilders = nil
		site.ExcessBuilders = 0
		site.DailyProgress = 0
		slog.Debug("no builders assigned", "site", site.BuildingID)
		return report
	}

	sum := 0.0
	for _, b := range builders {
		sum += b.Effectiveness
	}
	avg := sum / float64(len(builders))
	needed := int(math.Ceil(site.PointsRemaining() / avg))
	effective := len(builders)
	if needed < effective {
		effective = needed
	}
	excess := len(builders) - effective
	if excess > 0 {
		slog.Debug("excess builders idle at site",
			"site", site.BuildingID, "excess", excess)
	}

	capped := 0.0
	for _, b := range builders[:effective] {
		capped += b.Effectiveness
	}

	breakdown := Breakdown{
		BaseEffectiveness: capped,
		Foreman:           1.0,
		Teamwork:          teamworkBonus(effective),
		Season:            in.SeasonMultiplier,
		Technology:        1 + float64(in.TechLevel)*0.02,
		Aura:              1.0,
	}
	if in.ForemanPresent {
		breakdown.Foreman = 1.2
	}
	if in.AuraFactor != nil {
		if b, ok := in.Lookup(site.BuildingID); ok {
			breakdown.Aura = in.AuraFactor(b.Position)
		}
	}

	progress := capped * breakdown.Foreman * breakdown.Teamwork *
		breakdown.Season * breakdown.Technology * breakdown.Aura

	site.AssignedBuilders = builders
	site.ExcessBuilders = excess
	site.DailyProgress = progress
	site.Breakdown = breakdown
	report.DailyProgress = progress
	report.EffectiveBuilders = effective
	report.ExcessBuilders = excess

	advance := progress
	if remaining := site.PointsRemaining(); advance > remaining {
		advance = remaining
	}
	site.CurrentPoints += advance

	// Snap a floating-point tail left by today's advance.
	if site.PointsRemaining() <= snapPoints {
		site.CurrentPoints = site.TotalPoints
	}

	s.awardDailyXP(site, builders, &in)

	if site.PointsRemaining() <= epsilon {
		s.finalize(site, &in, &report)
	}
	return report
}

// teamworkBonus rewards multiple builders on one site with diminishing
// returns: +5%/+10%/+15% at 2/3/4–5 builders, +1% per builder beyond 5.
func teamworkBonus(n int) float64 {
	switch {
	case n <= 1:
		return 1.0
	case n == 2:
		return 1.05
	case n == 3:
		return 1.10
	case n <= 5:
		return 1.15
	default:
		return 1.15 + 0.01*float64(n-5)
	}
}

// awardDailyXP grants each assigned builder 1–2 XP, scaled by the
// building difficulty, in every skill the building type trains.
func (s *Scheduler) awardDailyXP(site *Site, builders []jobs.SiteBuilder, in *DayInput) {
	if in.AwardXP == nil {
		return
	}
	difficulty := village.Difficulty(site.BuildingType)
	relevant := village.RelevantSkills(site.BuildingType)
	for _, b := range builders {
		base := 1
		if in.Rand != nil {
			base += in.Rand.Intn(2)
		}
		amount := int(math.Round(float64(base) * difficulty))
		if amount < 1 {
			amount = 1
		}
		for _, sk := range relevant {
			in.AwardXP(b.WorkerID, sk, amount)
		}
	}
}

// completionXPBase is the larger award granted when a site completes.
const completionXPBase = 10.0

// finalize flips the building to built, clears the site, and records
// the completion. A failed building lookup aborts the completion; the
// site stays active and is retried next day.
func (s *Scheduler) finalize(site *Site, in *DayInput, report *DayReport) {
	site.Status = StatusCompleting

	b, ok := in.Lookup(site.BuildingID)
	if !ok {
		slog.Warn("completion aborted: building not found, retrying next day",
			"building", site.BuildingID)
		site.Status = StatusActive
		return
	}

	b.Built = true
	s.remove(site.BuildingID)

	if in.AwardXP != nil {
		difficulty := village.Difficulty(site.BuildingType)
		bonus := int(math.Round(completionXPBase * difficulty))
		if bonus < 1 {
			bonus = 1
		}
		for _, builder := range site.AssignedBuilders {
			for _, sk := range village.RelevantSkills(site.BuildingType) {
				in.AwardXP(builder.WorkerID, sk, bonus)
			}
		}
	}

	report.Completed = append(report.Completed, Completion{
		BuildingID:   site.BuildingID,
		BuildingType: site.BuildingType,
		Level:        site.Level,
		Day:          in.Day,
	})
	slog.Info("construction complete",
		"building", site.BuildingType.Name(),
		"level", site.Level,
		"day", in.Day,
		"total_points", site.TotalPoints,
	)
}

func (s *Scheduler) remove(id village.BuildingID) {
	delete(s.sites, id)
	for i, sid := range s.order {
		if sid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

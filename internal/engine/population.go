// Population dynamics — daily aging, recovery, and natural death.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talven/hearthold/internal/workforce"
)

// processPopulation ages every living worker one day, drifts health
// and happiness, and resolves natural deaths. Returns the day's dead.
func (s *Simulation) processPopulation() []string {
	var deaths []string

	for _, w := range s.Pool.Workers {
		if !w.Alive() {
			continue
		}
		w.AgeDays++

		// Rest and routine: health mends slowly, happiness settles
		// toward a contented baseline.
		if w.Health < 100 {
			w.Health += 0.2
			if w.Health > 100 {
				w.Health = 100
			}
		}
		switch {
		case w.Happiness < 70:
			w.Happiness += 0.3
		case w.Happiness > 70:
			w.Happiness -= 0.1
		}

		if s.naturalDeath(w) {
			w.Status = workforce.StatusDead
			s.Jobs.Unassign(w.ID)
			deaths = append(deaths, w.Name)
			s.record("death", fmt.Sprintf("%s has died at %d", w.Name, w.AgeYears()))
			slog.Info("worker died", "name", w.Name, "age_years", w.AgeYears())
		}
	}
	return deaths
}

// naturalDeath rolls old-age and illness mortality. Odds climb past
// sixty; critically low health is its own risk at any age.
func (s *Simulation) naturalDeath(w *workforce.Worker) bool {
	years := w.AgeYears()
	if years > 60 && s.rng.Float64() < float64(years-60)*0.0005 {
		return true
	}
	if w.Health < 10 && s.rng.Float64() < 0.02 {
		return true
	}
	return false
}

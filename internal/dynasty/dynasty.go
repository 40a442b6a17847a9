// Package dynasty tracks the ruling house: the current ruler, the
// ordered heir line, and succession when a ruler dies.
package dynasty

import (
	"fmt"
	"log/slog"
	"math/rand"
)

// daysPerYear matches the settlement calendar (8 seasons of 25 days).
const daysPerYear = 200

// Royal is a member of the ruling house.
type Royal struct {
	Name    string `json:"name"`
	AgeDays int    `json:"age_days"`
	Alive   bool   `json:"alive"`
}

// AgeYears converts the day counter to calendar years.
func (r *Royal) AgeYears() int {
	return r.AgeDays / daysPerYear
}

// SuccessionEvent records one change of ruler.
type SuccessionEvent struct {
	Day      int    `json:"day"`
	Deceased string `json:"deceased"`
	// Successor is empty when the line is extinguished.
	Successor string `json:"successor,omitempty"`
}

// House is the ruling family. Heirs are kept in succession order:
// eldest living heir takes the seat.
type House struct {
	Name          string   `json:"name"`
	Ruler         *Royal   `json:"ruler,omitempty"`
	Heirs         []*Royal `json:"heirs"`
	ReignStartDay int      `json:"reign_start_day"`

	rng *rand.Rand
}

var houseNames = []string{
	"Ashford", "Brackenwell", "Coldmere", "Dunhollow", "Eastvale",
	"Farrowmont", "Greyhurst", "Holloway",
}

var royalNames = []string{
	"Aldous", "Brenna", "Cassian", "Doria", "Emeric", "Fenella",
	"Godwin", "Helewise", "Isolde", "Jocelin", "Kendric", "Lioba",
}

// NewHouse founds a ruling house with a middle-aged ruler and two
// heirs, deterministic for a seed.
func NewHouse(seed int64, day int) *House {
	rng := rand.New(rand.NewSource(seed + 1100))
	h := &House{
		Name:          houseNames[rng.Intn(len(houseNames))],
		ReignStartDay: day,
		rng:           rng,
	}
	h.Ruler = h.newRoyal(35, 50)
	h.Heirs = []*Royal{h.newRoyal(12, 25), h.newRoyal(5, 12)}
	return h
}

// Restore rebuilds the RNG for a house loaded from persistence.
func (h *House) Restore(seed int64) {
	h.rng = rand.New(rand.NewSource(seed + 1100))
}

func (h *House) newRoyal(minYears, maxYears int) *Royal {
	years := minYears + h.rng.Intn(maxYears-minYears+1)
	return &Royal{
		Name:    royalNames[h.rng.Intn(len(royalNames))],
		AgeDays: years*daysPerYear + h.rng.Intn(daysPerYear),
		Alive:   true,
	}
}

// ProcessDay ages the house one day and resolves succession for any
// ruler death. Old-age mortality starts past 55.
func (h *House) ProcessDay(day int) []SuccessionEvent {
	var events []SuccessionEvent

	for _, r := range h.Heirs {
		if r.Alive {
			r.AgeDays++
		}
	}
	if h.Ruler == nil || !h.Ruler.Alive {
		return events
	}
	h.Ruler.AgeDays++

	years := h.Ruler.AgeYears()
	if years > 55 && h.rng.Float64() < float64(years-55)*0.0004 {
		h.Ruler.Alive = false
		events = append(events, h.succeed(day))
	}
	return events
}

// succeed seats the eldest living heir. An empty heir line ends the
// dynasty; the seat stays vacant.
func (h *House) succeed(day int) SuccessionEvent {
	ev := SuccessionEvent{Day: day, Deceased: h.Ruler.Name}

	var next *Royal
	idx := -1
	for i, heir := range h.Heirs {
		if !heir.Alive {
			continue
		}
		if next == nil || heir.AgeDays > next.AgeDays {
			next = heir
			idx = i
		}
	}
	if next == nil {
		h.Ruler = nil
		slog.Info("dynasty extinguished", "house", h.Name, "day", day)
		return ev
	}

	h.Heirs = append(h.Heirs[:idx], h.Heirs[idx+1:]...)
	h.Ruler = next
	h.ReignStartDay = day
	ev.Successor = next.Name
	slog.Info("succession",
		"house", h.Name,
		"ruler", next.Name,
		"age", next.AgeYears(),
		"day", day,
	)
	return ev
}

// RulerTitle renders the current ruler for reports.
func (h *House) RulerTitle() string {
	if h.Ruler == nil {
		return fmt.Sprintf("House %s (vacant seat)", h.Name)
	}
	return fmt.Sprintf("%s of House %s", h.Ruler.Name, h.Name)
}

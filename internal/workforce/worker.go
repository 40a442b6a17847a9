// Package workforce provides the worker data model and the pool that
// answers availability and effectiveness queries for the job engine.
package workforce

import (
	"github.com/talven/hearthold/internal/skill"
	"github.com/talven/hearthold/internal/village"
)

// DaysPerYear is the length of the settlement calendar (8 seasons of
// 25 days).
const DaysPerYear = 200

// Status is a worker's lifecycle state.
type Status uint8

const (
	StatusIdle Status = iota
	StatusWorking
	StatusDead
)

var statusNames = [...]string{
	StatusIdle:    "idle",
	StatusWorking: "working",
	StatusDead:    "dead",
}

// Name returns the lowercase status name.
func (s Status) Name() string {
	if int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// StatusByName resolves a status name; unknown names map to idle.
func StatusByName(name string) Status {
	for i, n := range statusNames {
		if n == name {
			return Status(i)
		}
	}
	return StatusIdle
}

// Assignment is the display back-reference to a worker's current job.
// The job engine's assignment map is authoritative, never this.
type Assignment struct {
	Building village.BuildingID `json:"building"`
	Job      village.JobType    `json:"job"`
}

// Worker is one inhabitant. Experience totals only ever grow; levels
// are derived from them through the skill package.
type Worker struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	AgeDays   int                `json:"age_days"`
	Health    float64            `json:"health"`    // 0–100
	Happiness float64            `json:"happiness"` // 0–100
	Skills    map[skill.Name]int `json:"skills"`    // skill → XP
	Status    Status             `json:"status"`
	Assignment *Assignment       `json:"assignment,omitempty"`
}

// AgeYears converts the day counter to calendar years.
func (w *Worker) AgeYears() int {
	return w.AgeDays / DaysPerYear
}

// Alive reports whether the worker is still part of the settlement.
func (w *Worker) Alive() bool {
	return w.Status != StatusDead
}

// XP returns the experience total for a skill (0 when untrained).
func (w *Worker) XP(s skill.Name) int {
	return w.Skills[s]
}

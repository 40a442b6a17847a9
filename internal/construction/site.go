// Package construction schedules work-point progress for in-progress
// buildings: one priority site per day, a capped builder crew, and a
// multiplier chain from skills, season, technology, and location.
package construction

import (
	"math"

	"github.com/talven/hearthold/internal/jobs"
	"github.com/talven/hearthold/internal/village"
)

// Completion tolerances. A site is done when remaining work falls
// within epsilon; remaining work at or below snapPoints is forced to
// completion so floating-point tails cannot stall a site forever.
const (
	epsilon    = 0.001
	snapPoints = 0.1
)

// Status is a site's lifecycle state.
type Status uint8

const (
	StatusActive Status = iota
	StatusCompleting
)

// Breakdown records the multiplier chain applied on the last processed
// day.
type Breakdown struct {
	BaseEffectiveness float64 `json:"base_effectiveness"` // capped crew sum
	Foreman           float64 `json:"foreman"`
	Teamwork          float64 `json:"teamwork"`
	Season            float64 `json:"season"`
	Technology        float64 `json:"technology"`
	Aura              float64 `json:"aura"`
}

// Site is the progress record for one in-progress building, keyed by
// building ID. CurrentPoints only ever grows; PointsRemaining is
// derived so the two always sum to TotalPoints.
type Site struct {
	BuildingID   village.BuildingID   `json:"building_id"`
	BuildingType village.BuildingType `json:"building_type"`
	Level        int                  `json:"level"`

	TotalPoints   float64 `json:"points_required"`
	CurrentPoints float64 `json:"points_completed"`

	AssignedBuilders []jobs.SiteBuilder `json:"assigned_builders"`
	ExcessBuilders   int                `json:"excess_builders"`
	DailyProgress    float64            `json:"daily_progress"`
	Breakdown        Breakdown          `json:"efficiency"`
	StartDay         int                `json:"start_day"`
	TechDiscount     float64            `json:"technology_discount"`
	Status           Status             `json:"status"`
}

// PointsRemaining returns the work left before completion.
func (s *Site) PointsRemaining() float64 {
	return s.TotalPoints - s.CurrentPoints
}

// TotalPointsFor computes a site's work-point total once, at creation:
// base requirement × level multiplier × technology discount, rounded
// up. No building type has zero cost.
func TotalPointsFor(t village.BuildingType, level, techLevel int) float64 {
	base := village.BasePoints(t)
	if level < 1 {
		level = 1
	}
	levelMul := 1 + float64(level-1)*0.3
	discount := 1 - float64(techLevel)*0.05
	if discount < 0.1 {
		discount = 0.1
	}
	return math.Ceil(base * levelMul * discount)
}

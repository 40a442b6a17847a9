// Package defense resolves raids against the settlement with a seeded
// dice roll: garrison strength plus walls against raid strength.
package defense

import (
	"log/slog"
	"math/rand"
)

// RaidOutcome is the synchronous result of one raid resolution.
type RaidOutcome struct {
	Day          int     `json:"day"`
	RaidStrength float64 `json:"raid_strength"`
	Defense      float64 `json:"defense"`
	Repelled     bool    `json:"repelled"`
	// Wounded is how many defenders took injuries (health loss is
	// applied by the caller, who owns the worker pool).
	Wounded int `json:"wounded"`
	// FoodLost is the share of stores carried off on a breach.
	FoodLost float64 `json:"food_lost"`
}

// ResolveRaid rolls one raid. Defense is the garrison's summed
// effectiveness plus a flat bonus per wall level; both sides add a
// dice roll so a strong garrison can still have a bad night.
func ResolveRaid(rng *rand.Rand, day int, garrison float64, wallLevel int, foodStore float64) RaidOutcome {
	out := RaidOutcome{Day: day}

	out.RaidStrength = 2.0 + rng.Float64()*4.0
	defenseRoll := rng.Float64() * 2.0
	out.Defense = garrison + float64(wallLevel)*1.5 + defenseRoll

	out.Repelled = out.Defense >= out.RaidStrength
	if out.Repelled {
		// Even a repelled raid can wound a defender.
		if rng.Float64() < 0.3 {
			out.Wounded = 1
		}
		slog.Info("raid repelled",
			"day", day, "raid", out.RaidStrength, "defense", out.Defense)
		return out
	}

	deficit := out.RaidStrength - out.Defense
	out.Wounded = 1 + int(deficit)
	out.FoodLost = foodStore * 0.1 * (1 + deficit/4)
	if out.FoodLost > foodStore {
		out.FoodLost = foodStore
	}
	slog.Warn("raid broke through",
		"day", day,
		"raid", out.RaidStrength,
		"defense", out.Defense,
		"wounded", out.Wounded,
		"food_lost", out.FoodLost,
	)
	return out
}

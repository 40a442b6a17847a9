// Package skill converts accumulated experience points into discrete
// skill levels, titles, and productivity multipliers.
package skill

// Name identifies a trainable skill ("construction", "farming", ...).
type Name string

// Skill names used across the settlement.
const (
	Construction Name = "construction"
	Carpentry    Name = "carpentry"
	Masonry      Name = "masonry"
	Farming      Name = "farming"
	Mining       Name = "mining"
	Combat       Name = "combat"
	Scholarship  Name = "scholarship"
	Leadership   Name = "leadership"
)

// Level tiers. XP thresholds: Novice <101, Apprentice <301,
// Journeyman <601, Expert <1001, Grandmaster >=1001.
const (
	LevelNovice      = 1
	LevelApprentice  = 2
	LevelJourneyman  = 3
	LevelExpert      = 4
	LevelGrandmaster = 5
)

var levelNames = [...]string{
	LevelNovice:      "Novice",
	LevelApprentice:  "Apprentice",
	LevelJourneyman:  "Journeyman",
	LevelExpert:      "Expert",
	LevelGrandmaster: "Grandmaster",
}

// perLevelBonus is the flat job-effectiveness bonus a worker earns per
// relevant skill at each level. Endpoints are fixed (+0.05 Novice,
// +0.5 Grandmaster); intermediate steps are convex.
var perLevelBonus = [...]float64{
	LevelNovice:      0.05,
	LevelApprentice:  0.10,
	LevelJourneyman:  0.20,
	LevelExpert:      0.35,
	LevelGrandmaster: 0.50,
}

// Rating is the resolved view of an experience total.
type Rating struct {
	Level                int
	Title                string
	EfficiencyMultiplier float64
}

// LevelFor maps an experience total onto a level. Negative XP is
// treated as zero, so the function is total over all inputs.
func LevelFor(xp int) int {
	switch {
	case xp < 101:
		return LevelNovice
	case xp < 301:
		return LevelApprentice
	case xp < 601:
		return LevelJourneyman
	case xp < 1001:
		return LevelExpert
	default:
		return LevelGrandmaster
	}
}

// Rate resolves an experience total into a Rating. Pure; no side effects.
func Rate(xp int) Rating {
	lvl := LevelFor(xp)
	return Rating{
		Level:                lvl,
		Title:                levelNames[lvl],
		EfficiencyMultiplier: 1 + perLevelBonus[lvl],
	}
}

// LevelName returns the title for a level, or "Unknown" outside 1..5.
func LevelName(level int) string {
	if level < LevelNovice || level > LevelGrandmaster {
		return "Unknown"
	}
	return levelNames[level]
}

// Bonus returns the flat per-skill effectiveness bonus for an
// experience total.
func Bonus(xp int) float64 {
	return perLevelBonus[LevelFor(xp)]
}

// Seasonal calendar: eight named seasons of 25 days each, with
// per-season construction and harvest multipliers.
package engine

// Calendar constants.
const (
	DaysPerSeason = 25
	NumSeasons    = 8
	DaysPerYear   = DaysPerSeason * NumSeasons // 200
)

// Season indexes the eight-season year.
type Season uint8

const (
	SeasonThaw Season = iota
	SeasonSowing
	SeasonHighsun
	SeasonHarvest
	SeasonGleaning
	SeasonFalling
	SeasonFrost
	SeasonDeepwinter
)

var seasonNames = [NumSeasons]string{
	"Thaw", "Sowing", "Highsun", "Harvest",
	"Gleaning", "Falling", "Frost", "Deepwinter",
}

// Construction multipliers per season: frozen ground slows work,
// midsummer speeds it.
var seasonConstruction = [NumSeasons]float64{
	0.9, 1.0, 1.2, 1.1, 1.0, 0.9, 0.8, 0.8,
}

// Food-production multipliers per season.
var seasonHarvest = [NumSeasons]float64{
	0.9, 1.0, 1.2, 1.4, 1.1, 0.9, 0.6, 0.5,
}

// SeasonFor maps a day counter onto the calendar.
func SeasonFor(day int) Season {
	if day < 0 {
		day = 0
	}
	return Season(day % DaysPerYear / DaysPerSeason)
}

// Name returns the season's name.
func (s Season) Name() string {
	if int(s) >= NumSeasons {
		return "Unknown"
	}
	return seasonNames[s]
}

// ConstructionMultiplier returns the season's construction factor,
// in [0.8, 1.2].
func (s Season) ConstructionMultiplier() float64 {
	if int(s) >= NumSeasons {
		return 1.0
	}
	return seasonConstruction[s]
}

// HarvestMultiplier returns the season's food-production factor.
func (s Season) HarvestMultiplier() float64 {
	if int(s) >= NumSeasons {
		return 1.0
	}
	return seasonHarvest[s]
}

// RaidSeason reports whether raiders are active (the hungry seasons).
func (s Season) RaidSeason() bool {
	return s == SeasonFrost || s == SeasonDeepwinter
}

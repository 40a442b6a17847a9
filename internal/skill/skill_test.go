package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFor_Thresholds(t *testing.T) {
	assert.Equal(t, LevelNovice, LevelFor(0))
	assert.Equal(t, LevelNovice, LevelFor(100))
	assert.Equal(t, LevelApprentice, LevelFor(101))
	assert.Equal(t, LevelApprentice, LevelFor(300))
	assert.Equal(t, LevelJourneyman, LevelFor(301))
	assert.Equal(t, LevelJourneyman, LevelFor(600))
	assert.Equal(t, LevelExpert, LevelFor(601))
	assert.Equal(t, LevelExpert, LevelFor(1000))
	assert.Equal(t, LevelGrandmaster, LevelFor(1001))
	assert.Equal(t, LevelGrandmaster, LevelFor(50000))
}

func TestLevelFor_NegativeXPTreatedAsZero(t *testing.T) {
	assert.Equal(t, LevelNovice, LevelFor(-40))
}

func TestRate_TitlesAndMultipliers(t *testing.T) {
	r := Rate(0)
	assert.Equal(t, "Novice", r.Title)
	assert.InDelta(t, 1.05, r.EfficiencyMultiplier, 1e-9)

	r = Rate(1001)
	assert.Equal(t, "Grandmaster", r.Title)
	assert.InDelta(t, 1.5, r.EfficiencyMultiplier, 1e-9)
}

func TestLevelName_OutOfRange(t *testing.T) {
	assert.Equal(t, "Unknown", LevelName(0))
	assert.Equal(t, "Unknown", LevelName(6))
	assert.Equal(t, "Journeyman", LevelName(3))
}

func TestBonus_Endpoints(t *testing.T) {
	assert.InDelta(t, 0.05, Bonus(0), 1e-9)
	assert.InDelta(t, 0.5, Bonus(2000), 1e-9)
}

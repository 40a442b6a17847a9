package workforce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talven/hearthold/internal/skill"
	"github.com/talven/hearthold/internal/village"
)

func testWorker(id string, years int, health, happiness float64) *Worker {
	return &Worker{
		ID:        id,
		Name:      id,
		AgeDays:   years * DaysPerYear,
		Health:    health,
		Happiness: happiness,
		Skills:    make(map[skill.Name]int),
		Status:    StatusIdle,
	}
}

// Age 70 → 0.9, health 50 → max(0.8, 0.5) = 0.8, happiness 40 →
// max(0.9, 0.4) = 0.9, no relevant skills → 1.25 × 0.9 × 0.8 × 0.9.
func TestEffectiveness_ModifierChain(t *testing.T) {
	p := NewPool()
	w := testWorker("w1", 70, 50, 40)
	p.Add(w)

	eff := p.Effectiveness(w, village.JobBuilder)
	assert.InDelta(t, 0.81, eff, 1e-9)
}

func TestEffectiveness_PrimeAdultFullHealth(t *testing.T) {
	p := NewPool()
	w := testWorker("w1", 30, 100, 100)
	p.Add(w)

	assert.InDelta(t, 1.25, p.Effectiveness(w, village.JobBuilder), 1e-9)
}

func TestEffectiveness_SkillBonusAveragesPossessedSkills(t *testing.T) {
	p := NewPool()
	w := testWorker("w1", 30, 100, 100)
	// Novice construction (+0.05) and Apprentice carpentry (+0.10);
	// masonry untrained and excluded from the average.
	w.Skills[skill.Construction] = 50
	w.Skills[skill.Carpentry] = 150
	p.Add(w)

	want := 1.25 * (1 + (0.05+0.10)/2)
	assert.InDelta(t, want, p.Effectiveness(w, village.JobBuilder), 1e-9)
}

func TestEffectiveness_BuilderFloor(t *testing.T) {
	p := NewPool()
	w := testWorker("w1", 14, 10, 10)
	p.Add(w)

	// 1.25 × 0.8 × 0.8 × 0.9 = 0.72 — above the floor.
	assert.InDelta(t, 0.72, p.Effectiveness(w, village.JobBuilder), 1e-9)

	// Scholars have a lower base; the default floor catches them.
	assert.GreaterOrEqual(t, p.Effectiveness(w, village.JobScholar), 0.4)
}

func TestEffectiveness_AgeBrackets(t *testing.T) {
	p := NewPool()
	cases := []struct {
		years  int
		factor float64
	}{
		{14, 0.8}, {18, 0.95}, {24, 0.95}, {25, 1.0}, {45, 1.0},
		{46, 0.98}, {60, 0.98}, {61, 0.9},
	}
	for _, c := range cases {
		w := testWorker("w", c.years, 100, 100)
		assert.InDelta(t, 1.25*c.factor, p.Effectiveness(w, village.JobBuilder), 1e-9,
			"age %d years", c.years)
	}
}

func TestAvailableWorkers_StableInsertionOrder(t *testing.T) {
	p := NewPool()
	for _, id := range []string{"a", "b", "c"} {
		p.Add(testWorker(id, 30, 100, 100))
	}
	b, _ := p.Get("b")
	b.Status = StatusDead

	avail := p.AvailableWorkers()
	require.Len(t, avail, 2)
	assert.Equal(t, "a", avail[0].ID)
	assert.Equal(t, "c", avail[1].ID)
}

func TestAwardExperience_LevelUpDetection(t *testing.T) {
	p := NewPool()
	w := testWorker("w1", 30, 100, 100)
	w.Skills[skill.Construction] = 95
	p.Add(w)

	up, ok := p.AwardExperience("w1", skill.Construction, 5)
	require.True(t, ok)
	assert.False(t, up, "100 XP is still Novice")

	up, ok = p.AwardExperience("w1", skill.Construction, 1)
	require.True(t, ok)
	assert.True(t, up, "101 XP crosses into Apprentice")
	assert.Equal(t, 101, w.Skills[skill.Construction])
}

func TestAwardExperience_UnknownWorkerIsNoOp(t *testing.T) {
	p := NewPool()
	up, ok := p.AwardExperience("nobody", skill.Construction, 10)
	assert.False(t, up)
	assert.False(t, ok)
}

func TestSpawner_DeterministicForSeed(t *testing.T) {
	a := NewSpawner(7).SpawnFounders(5)
	b := NewSpawner(7).SpawnFounders(5)
	require.Len(t, a, 5)
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].AgeDays, b[i].AgeDays)
		assert.Equal(t, a[i].Skills, b[i].Skills)
	}
}

package progression

import "github.com/ascend-fitness/backend/internal/models"

// Curve maps cumulative XP to level and level to rank. It is a policy
// table, not hardcoded arithmetic, so the progression pacing can be tuned
// without touching the engine.
type Curve struct {
	// thresholds[i] is the total XP at which level i+2 begins; level 1
	// starts at 0. Strictly increasing.
	thresholds []int64
	// rankFloors is ordered E..S; each entry names the minimum level for
	// that rank.
	rankFloors []rankFloor
}

type rankFloor struct {
	rank     string
	minLevel int
}

// NewCurve builds a curve from explicit level thresholds and rank floors.
// Intended for tests and tuning experiments.
func NewCurve(thresholds []int64, floors map[string]int) *Curve {
	c := &Curve{thresholds: thresholds}
	for _, rank := range []string{models.RankE, models.RankD, models.RankC, models.RankB, models.RankA, models.RankS} {
		if lvl, ok := floors[rank]; ok {
			c.rankFloors = append(c.rankFloors, rankFloor{rank: rank, minLevel: lvl})
		}
	}
	return c
}

// DefaultCurve uses a triangular requirement: advancing from level L
// costs 100*L XP, tabulated up to level 100.
func DefaultCurve() *Curve {
	const maxLevel = 100
	thresholds := make([]int64, 0, maxLevel-1)
	var total int64
	for level := 1; level < maxLevel; level++ {
		total += int64(100 * level)
		thresholds = append(thresholds, total)
	}
	return NewCurve(thresholds, map[string]int{
		models.RankE: 1,
		models.RankD: 11,
		models.RankC: 21,
		models.RankB: 36,
		models.RankA: 51,
		models.RankS: 71,
	})
}

// LevelForXP returns the level for a cumulative XP total. Pure and
// monotonic: recomputing from stored total_xp always reproduces the
// stored level.
func (c *Curve) LevelForXP(totalXP int64) int {
	if totalXP < 0 {
		totalXP = 0
	}
	level := 1
	for _, threshold := range c.thresholds {
		if totalXP < threshold {
			break
		}
		level++
	}
	return level
}

// LevelStartXP returns the cumulative XP at which the given level begins.
func (c *Curve) LevelStartXP(level int) int64 {
	if level <= 1 {
		return 0
	}
	idx := level - 2
	if idx >= len(c.thresholds) {
		idx = len(c.thresholds) - 1
	}
	return c.thresholds[idx]
}

// NextLevelXP returns the cumulative XP needed for the next level, or -1
// at the top of the table.
func (c *Curve) NextLevelXP(level int) int64 {
	idx := level - 1
	if idx >= len(c.thresholds) {
		return -1
	}
	return c.thresholds[idx]
}

// MaxLevel is the top of the tabulated curve.
func (c *Curve) MaxLevel() int {
	return len(c.thresholds) + 1
}

// RankForLevel returns the rank bracket containing a level.
func (c *Curve) RankForLevel(level int) string {
	rank := models.RankE
	for _, floor := range c.rankFloors {
		if level >= floor.minLevel {
			rank = floor.rank
		}
	}
	return rank
}

package progression

import "github.com/ascend-fitness/backend/internal/models"

// Engine applies XP to a progress record and reports the resulting
// level/rank cascade. Calls are not idempotent by design — XP accumulates;
// the quest lifecycle guarantees at-most-once application per verdict.
type Engine struct {
	curve *Curve
}

func NewEngine(curve *Curve) *Engine {
	return &Engine{curve: curve}
}

func (e *Engine) Curve() *Curve {
	return e.curve
}

// ApplyXP adds the delta and recomputes level and rank from the new
// total. A single call captures multi-level jumps; the result carries
// only the final level and rank plus the two booleans.
func (e *Engine) ApplyXP(p *models.UserProgress, delta int64) models.ProgressResult {
	oldLevel := p.Level
	oldRank := p.Rank

	p.TotalXP += delta
	if p.TotalXP < 0 {
		p.TotalXP = 0
	}
	e.Recalculate(p)

	return models.ProgressResult{
		LeveledUp: p.Level > oldLevel,
		NewLevel:  p.Level,
		RankedUp:  models.RankOrder[p.Rank] > models.RankOrder[oldRank],
		NewRank:   p.Rank,
	}
}

// ApplyStats adds verdict stat deltas to the progress record.
func (e *Engine) ApplyStats(p *models.UserProgress, deltas models.StatBlock) {
	p.Strength += deltas.Strength
	p.Agility += deltas.Agility
	p.Stamina += deltas.Stamina
}

// ChangeClass is the deliberate, destructive, user-initiated class swap:
// total XP is halved and level/rank recomputed.
func (e *Engine) ChangeClass(p *models.UserProgress, class string) models.ProgressResult {
	oldLevel := p.Level
	oldRank := p.Rank

	p.Class = class
	p.TotalXP /= 2
	e.Recalculate(p)

	return models.ProgressResult{
		LeveledUp: p.Level > oldLevel,
		NewLevel:  p.Level,
		RankedUp:  models.RankOrder[p.Rank] > models.RankOrder[oldRank],
		NewRank:   p.Rank,
	}
}

// Reset zeroes the record back to a fresh level-1 hunter.
func (e *Engine) Reset(p *models.UserProgress) {
	p.TotalXP = 0
	p.Strength = 0
	p.Agility = 0
	p.Stamina = 0
	e.Recalculate(p)
}

// Recalculate derives level, rank, and within-level XP from total_xp.
// The stored level is always exactly this derivation — no drift.
func (e *Engine) Recalculate(p *models.UserProgress) {
	p.Level = e.curve.LevelForXP(p.TotalXP)
	p.Rank = e.curve.RankForLevel(p.Level)
	p.CurrentXP = p.TotalXP - e.curve.LevelStartXP(p.Level)
}

// Package progress recomputes the cached progress snapshots of a session.
package progress

import (
	"github.com/nhle/packlist/internal/model"
)

// Compute rebuilds every section's progress and the session total from the
// live item tree and returns the session total.
func Compute(s *model.Session) model.Progress {
	var total model.Progress
	for i := range s.Sections {
		sec := &s.Sections[i]
		sec.Progress = tally(sec.Items)
		total.TotalCells += sec.Progress.TotalCells
		total.PackedCells += sec.Progress.PackedCells
		total.CriticalRemaining += sec.Progress.CriticalRemaining
		total.RuleAddedCount += sec.Progress.RuleAddedCount
	}
	total.Fraction = fraction(total.PackedCells, total.TotalCells)
	s.Progress = total
	return total
}

func tally(items []model.Item) model.Progress {
	var p model.Progress
	for _, item := range items {
		p.TotalCells++
		if item.Packed {
			p.PackedCells++
		} else if item.Critical {
			p.CriticalRemaining++
		}
		if item.Origin == model.OriginRuleInjected {
			p.RuleAddedCount++
		}
	}
	p.Fraction = fraction(p.PackedCells, p.TotalCells)
	return p
}

func fraction(packed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(packed) / float64(total)
}

// Aggregator recomputes progress and keeps the perfect-pack streak.
//
// The streak grows on every Refresh that observes a fully packed session,
// including repeated calls on a session that simply stays complete.
type Aggregator struct {
	stats *model.Statistics

	// OnCompleted, when set, is called after the streak is recorded.
	OnCompleted func(s *model.Session, stats model.Statistics)
}

// NewAggregator returns an aggregator writing streaks into stats.
func NewAggregator(stats *model.Statistics) *Aggregator {
	return &Aggregator{stats: stats}
}

// Refresh recomputes s and records a perfect pack when it is complete.
func (a *Aggregator) Refresh(s *model.Session) model.Progress {
	p := Compute(s)
	if p.Complete() {
		a.stats.RecordPerfectPack()
		if a.OnCompleted != nil {
			a.OnCompleted(s, *a.stats)
		}
	}
	return p
}

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/packlist/internal/model"
)

func session(items ...[]model.Item) *model.Session {
	s := &model.Session{ID: "s"}
	for i, its := range items {
		s.Sections = append(s.Sections, model.Section{ID: string(rune('a' + i)), Items: its})
	}
	return s
}

func TestCompute(t *testing.T) {
	s := session(
		[]model.Item{
			{Name: "Passport", Critical: true},
			{Name: "Tickets", Critical: true, Packed: true},
			{Name: "Rain Jacket", Origin: model.OriginRuleInjected},
		},
		[]model.Item{
			{Name: "Socks", Packed: true},
		},
		nil,
	)

	p := Compute(s)
	assert.Equal(t, 4, p.TotalCells)
	assert.Equal(t, 2, p.PackedCells)
	assert.Equal(t, 1, p.CriticalRemaining, "packed critical items do not count")
	assert.Equal(t, 1, p.RuleAddedCount)
	assert.InDelta(t, 0.5, p.Fraction, 1e-9)
	assert.Equal(t, p, s.Progress)

	assert.Equal(t, 3, s.Sections[0].Progress.TotalCells)
	assert.InDelta(t, 1.0, s.Sections[1].Progress.Fraction, 1e-9)
	assert.Zero(t, s.Sections[2].Progress.Fraction, "empty sections report zero")

	var sum int
	for _, sec := range s.Sections {
		sum += sec.Progress.TotalCells
	}
	assert.Equal(t, p.TotalCells, sum)
}

func TestEmptySessionIsNotComplete(t *testing.T) {
	p := Compute(session())
	assert.Zero(t, p.Fraction)
	assert.False(t, p.Complete())
}

func TestAggregatorStreak(t *testing.T) {
	var stats model.Statistics
	agg := NewAggregator(&stats)
	var notified int
	agg.OnCompleted = func(_ *model.Session, st model.Statistics) {
		notified++
		assert.Equal(t, stats, st)
	}

	s := session([]model.Item{{Name: "Socks"}})
	agg.Refresh(s)
	assert.Zero(t, stats.PerfectPackStreak)

	s.Sections[0].Items[0].Packed = true
	p := agg.Refresh(s)
	require.True(t, p.Complete())
	assert.Equal(t, 1, stats.PerfectPackStreak)

	// Every refresh that observes completion counts again.
	agg.Refresh(s)
	assert.Equal(t, 2, stats.PerfectPackStreak)
	assert.Equal(t, 2, stats.LongestStreak)
	assert.Equal(t, 2, notified)
}

package model

import "time"

// Statistics is the global gamification ledger.
type Statistics struct {
	SessionsCreated   int `json:"sessions_created"`
	TotalItemsPacked  int `json:"total_items_packed"`
	PerfectPackStreak int `json:"perfect_pack_streak"`
	LongestStreak     int `json:"longest_streak"`
}

// RecordPerfectPack bumps the streak and its high-water mark.
func (s *Statistics) RecordPerfectPack() {
	s.PerfectPackStreak++
	if s.PerfectPackStreak > s.LongestStreak {
		s.LongestStreak = s.PerfectPackStreak
	}
}

// Identity is the traveller profile shown by the host application.
type Identity struct {
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
}

// OnboardingState tracks whether the introduction flow has been completed.
type OnboardingState struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

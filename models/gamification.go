// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"slices"
	"time"
)

// Gamification is the user's engagement progress.
type Gamification struct {
	Level          int        `json:"level"`
	XP             int64      `json:"xp"`
	StreakDays     int        `json:"streakDays"`
	LastActiveDate *time.Time `json:"lastActiveDate,omitempty"`
	Achievements   []string   `json:"achievements,omitempty"`
}

// Equal reports whether both records carry the same progress.
func (g Gamification) Equal(o Gamification) bool {
	if g.Level != o.Level || g.XP != o.XP || g.StreakDays != o.StreakDays {
		return false
	}
	if (g.LastActiveDate == nil) != (o.LastActiveDate == nil) {
		return false
	}
	if g.LastActiveDate != nil && !g.LastActiveDate.Equal(*o.LastActiveDate) {
		return false
	}
	return slices.Equal(g.Achievements, o.Achievements)
}

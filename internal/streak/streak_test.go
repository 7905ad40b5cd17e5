package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	models "definegame/internal/models"
)

var streakDay = time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

func record(current, best int, lastWin time.Time) models.StreakRecord {
	return models.StreakRecord{
		PlayerID:      "player-1",
		CurrentStreak: current,
		BestStreak:    best,
		LastWinDate:   lastWin,
	}
}

func TestApplyGameResult_FirstWinStartsAtOne(t *testing.T) {
	got := ApplyGameResult(record(0, 0, time.Time{}), true, streakDay)

	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 1, got.BestStreak)
	assert.Equal(t, civilDate(streakDay), got.LastWinDate)
}

func TestApplyGameResult_WinDayAfterLastWinExtends(t *testing.T) {
	yesterday := streakDay.AddDate(0, 0, -1)
	got := ApplyGameResult(record(5, 5, yesterday), true, streakDay)

	assert.Equal(t, 6, got.CurrentStreak)
	assert.Equal(t, 6, got.BestStreak)
	assert.Equal(t, civilDate(streakDay), got.LastWinDate)
}

func TestApplyGameResult_WinAfterGapRestartsAtOne(t *testing.T) {
	threeDaysAgo := streakDay.AddDate(0, 0, -3)
	got := ApplyGameResult(record(5, 9, threeDaysAgo), true, streakDay)

	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 9, got.BestStreak, "best streak is never lowered")
	assert.Equal(t, civilDate(streakDay), got.LastWinDate)
}

func TestApplyGameResult_SameDayWinIsIdempotent(t *testing.T) {
	earlier := streakDay.Add(-4 * time.Hour)
	before := ApplyGameResult(record(2, 2, streakDay.AddDate(0, 0, -1)), true, earlier)
	after := ApplyGameResult(before, true, streakDay)

	assert.Equal(t, before, after)
}

func TestApplyGameResult_LossZerosCurrentOnly(t *testing.T) {
	yesterday := streakDay.AddDate(0, 0, -1)
	got := ApplyGameResult(record(4, 7, yesterday), false, streakDay)

	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 7, got.BestStreak)
	assert.Equal(t, yesterday, got.LastWinDate, "loss does not touch the last win date")
}

func TestApplyGameResult_BestStreakTracksHighWaterMark(t *testing.T) {
	got := record(0, 0, time.Time{})
	day := streakDay
	for i := 1; i <= 3; i++ {
		got = ApplyGameResult(got, true, day)
		day = day.AddDate(0, 0, 1)
	}
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.BestStreak)

	got = ApplyGameResult(got, false, day)
	got = ApplyGameResult(got, true, day)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 3, got.BestStreak)
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	lateYesterday := time.Date(2026, 8, 25, 23, 59, 0, 0, time.UTC)
	earlyToday := time.Date(2026, 8, 26, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(lateYesterday, earlyToday))
	assert.Equal(t, 0, daysBetween(earlyToday, earlyToday.Add(20*time.Hour)))
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		name     string
		record   models.StreakRecord
		expected bool
	}{
		{"won today", record(3, 3, streakDay), true},
		{"won yesterday", record(3, 3, streakDay.AddDate(0, 0, -1)), true},
		{"won two days ago", record(3, 3, streakDay.AddDate(0, 0, -2)), false},
		{"never won", record(0, 0, time.Time{}), false},
		{"zero streak after loss", record(0, 5, streakDay), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsActive(tt.record, streakDay))
		})
	}
}

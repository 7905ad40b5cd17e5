package streak

import (
	"time"

	models "definegame/internal/models"
)

// civilDate truncates to a UTC calendar day.
func civilDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(civilDate(b).Sub(civilDate(a)).Hours() / 24)
}

// ApplyGameResult folds one completed game into the streak record. Losses
// zero the current streak and touch nothing else. A win extends the streak
// when the last win was exactly yesterday, replays idempotently when the
// last win is already today, and otherwise restarts at one.
func ApplyGameResult(record models.StreakRecord, isWon bool, completionDate time.Time) models.StreakRecord {
	if !isWon {
		record.CurrentStreak = 0
		return record
	}

	today := civilDate(completionDate)
	switch {
	case record.LastWinDate.IsZero():
		record.CurrentStreak = 1
	case daysBetween(record.LastWinDate, today) == 1:
		record.CurrentStreak++
	case daysBetween(record.LastWinDate, today) == 0:
		// Already recorded a win today.
		return record
	default:
		record.CurrentStreak = 1
	}

	if record.CurrentStreak > record.BestStreak {
		record.BestStreak = record.CurrentStreak
	}
	record.LastWinDate = today
	return record
}

// IsActive reports whether the streak still counts as alive: the last win
// is today or yesterday. Read-only display derivation, never a mutation.
func IsActive(record models.StreakRecord, today time.Time) bool {
	if record.LastWinDate.IsZero() || record.CurrentStreak == 0 {
		return false
	}
	gap := daysBetween(record.LastWinDate, today)
	return gap >= 0 && gap <= 1
}

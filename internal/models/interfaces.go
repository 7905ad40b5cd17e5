package models

import (
	"context"
	"time"
)

// Dictionary is the ranked reference word list. RankOf reports the word's
// 1-based position in the fixed lexicographic ordering.
type Dictionary interface {
	Contains(word string) bool
	RankOf(word string) (int, bool)
	EntryByID(wordID string) (WordEntry, bool)
	WordOfDay(date time.Time) WordEntry
	Len() int
}

// SynonymTable is the curated synonym/category lookup used by the theme
// matcher before falling through to the semantic service.
type SynonymTable interface {
	Lookup(theme, guess string) (confidence int, ok bool)
}

// SemanticSimilarity scores two phrases in [0,1]. Errors mean the
// collaborator failed; callers must fail closed.
type SemanticSimilarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// SessionStore persists completed and in-flight game sessions.
type SessionStore interface {
	SaveSession(ctx context.Context, session *GameSession) error
	GetSession(ctx context.Context, gameID string) (*GameSession, error)
	CountCompletedInWeek(ctx context.Context, playerID, weekKey string) (int, error)
}

// BonusStore persists bonus attempts keyed by (wordID, playerID,
// attemptNumber) and finalized aggregates.
type BonusStore interface {
	GetAttempt(ctx context.Context, wordID, playerID string, attemptNumber int) (*BonusAttempt, error)
	SaveAttempt(ctx context.Context, attempt *BonusAttempt) error
	CountAttempts(ctx context.Context, wordID, playerID string) (int, error)
	ListAttempts(ctx context.Context, wordID, playerID string) ([]*BonusAttempt, error)
	SaveResult(ctx context.Context, result *BonusResult) error
}

// ThemeStore persists the weekly theme and per-player guess attempts.
type ThemeStore interface {
	GetWeeklyTheme(ctx context.Context, weekKey string) (string, error)
	GetCorrectAttempt(ctx context.Context, playerID, weekKey string) (*ThemeGuessAttempt, error)
	HasAttemptOnDay(ctx context.Context, playerID, weekKey string, day time.Time) (bool, error)
	SaveAttempt(ctx context.Context, attempt *ThemeGuessAttempt) error
}

// StreakStore persists one StreakRecord per player with last-write-wins.
type StreakStore interface {
	GetStreak(ctx context.Context, playerID string) (*StreakRecord, error)
	SaveStreak(ctx context.Context, record *StreakRecord) error
}

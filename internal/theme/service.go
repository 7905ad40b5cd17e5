package theme

import (
	"context"
	"errors"
	"fmt"
	"time"

	constants "definegame/internal/constants"
	models "definegame/internal/models"
	util "definegame/internal/util"
)

// Service enforces the weekly theme rules around the matcher: one guess per
// player per calendar day, only after completing a themed word that week,
// and the first correct guess of the week is final.
type Service struct {
	matcher  *Matcher
	store    models.ThemeStore
	sessions models.SessionStore
}

func NewService(matcher *Matcher, store models.ThemeStore, sessions models.SessionStore) *Service {
	return &Service{matcher: matcher, store: store, sessions: sessions}
}

// SubmitGuess evaluates one theme guess for the given week.
func (s *Service) SubmitGuess(ctx context.Context, playerID, weekKey, guess string, now time.Time) (*models.ThemeGuessAttempt, error) {
	actualTheme, err := s.store.GetWeeklyTheme(ctx, weekKey)
	if err != nil || actualTheme == "" {
		if err != nil {
			util.LogWarn("No theme available for week %s: %v", weekKey, err)
		}
		return nil, errors.New(constants.ErrorCodeThemeUnavailable)
	}

	solved, err := s.store.GetCorrectAttempt(ctx, playerID, weekKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrorCodeStoreUnavailable, err)
	}
	if solved != nil {
		return nil, errors.New(constants.ErrorCodeThemeSolved)
	}

	completed, err := s.sessions.CountCompletedInWeek(ctx, playerID, weekKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrorCodeStoreUnavailable, err)
	}
	if completed == 0 {
		return nil, errors.New(constants.ErrorCodeThemeNotEligible)
	}

	guessedToday, err := s.store.HasAttemptOnDay(ctx, playerID, weekKey, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrorCodeStoreUnavailable, err)
	}
	if guessedToday {
		return nil, errors.New(constants.ErrorCodeAlreadyGuessed)
	}

	result := s.matcher.Match(ctx, actualTheme, guess)
	attempt := &models.ThemeGuessAttempt{
		PlayerID:   playerID,
		WeekKey:    weekKey,
		Guess:      NormalizePhrase(guess),
		Method:     result.Method,
		Confidence: result.Confidence,
		IsCorrect:  result.IsCorrect,
		GuessedAt:  now,
	}
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrorCodeStoreUnavailable, err)
	}

	util.LogInfo("Theme guess for player %s week %s: method=%s confidence=%d correct=%v",
		playerID, weekKey, result.Method, result.Confidence, result.IsCorrect)
	return attempt, nil
}

// Status summarizes a player's standing for the week.
type Status struct {
	WeekKey      string `json:"weekKey"`
	Eligible     bool   `json:"eligible"`
	Solved       bool   `json:"solved"`
	GuessedToday bool   `json:"guessedToday"`
}

// GetStatus reads the player's weekly standing from the stores.
func (s *Service) GetStatus(ctx context.Context, playerID, weekKey string, now time.Time) (Status, error) {
	status := Status{WeekKey: weekKey}

	completed, err := s.sessions.CountCompletedInWeek(ctx, playerID, weekKey)
	if err != nil {
		return status, fmt.Errorf("%s: %w", constants.ErrorCodeStoreUnavailable, err)
	}
	status.Eligible = completed > 0

	solved, err := s.store.GetCorrectAttempt(ctx, playerID, weekKey)
	if err != nil {
		return status, fmt.Errorf("%s: %w", constants.ErrorCodeStoreUnavailable, err)
	}
	status.Solved = solved != nil

	guessedToday, err := s.store.HasAttemptOnDay(ctx, playerID, weekKey, now)
	if err != nil {
		return status, fmt.Errorf("%s: %w", constants.ErrorCodeStoreUnavailable, err)
	}
	status.GuessedToday = guessedToday

	return status, nil
}

// WeekKey formats the ISO week identifier for a point in time.
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

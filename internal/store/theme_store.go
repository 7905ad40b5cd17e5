package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	models "definegame/internal/models"
)

// ThemeRepository persists the weekly theme string and per-player guesses.
type ThemeRepository struct {
	db *DB
}

func NewThemeRepository(db *DB) *ThemeRepository {
	return &ThemeRepository{db: db}
}

// GetWeeklyTheme returns the hidden theme for a week, or "" when unset.
func (r *ThemeRepository) GetWeeklyTheme(ctx context.Context, weekKey string) (string, error) {
	var theme string
	err := r.db.QueryRow(`
		SELECT theme FROM weekly_themes WHERE week_key = ?`, weekKey).Scan(&theme)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get weekly theme: %w", err)
	}
	return theme, nil
}

// SetWeeklyTheme upserts the theme for a week.
func (r *ThemeRepository) SetWeeklyTheme(ctx context.Context, weekKey, theme string) error {
	res, err := r.db.Exec(`
		UPDATE weekly_themes SET theme = ? WHERE week_key = ?`, theme, weekKey)
	if err != nil {
		return fmt.Errorf("failed to update weekly theme: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		return nil
	}

	_, err = r.db.Exec(`
		INSERT INTO weekly_themes (week_key, theme) VALUES (?, ?)`, weekKey, theme)
	if err != nil {
		return fmt.Errorf("failed to insert weekly theme: %w", err)
	}
	return nil
}

// GetCorrectAttempt returns the week's recorded correct attempt, or nil.
func (r *ThemeRepository) GetCorrectAttempt(ctx context.Context, playerID, weekKey string) (*models.ThemeGuessAttempt, error) {
	row := r.db.QueryRow(`
		SELECT player_id, week_key, guess, method, confidence, is_correct, guessed_at
		FROM theme_guesses
		WHERE player_id = ? AND week_key = ? AND is_correct = 1
		ORDER BY guessed_at
		LIMIT 1`, playerID, weekKey)

	attempt, err := scanThemeAttempt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get correct theme attempt: %w", err)
	}
	return attempt, nil
}

// HasAttemptOnDay reports whether the player already guessed on the given
// calendar day.
func (r *ThemeRepository) HasAttemptOnDay(ctx context.Context, playerID, weekKey string, day time.Time) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM theme_guesses
		WHERE player_id = ? AND week_key = ? AND guess_day = ?`,
		playerID, weekKey, formatDate(day)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check theme attempts for day: %w", err)
	}
	return count > 0, nil
}

func (r *ThemeRepository) SaveAttempt(ctx context.Context, attempt *models.ThemeGuessAttempt) error {
	_, err := r.db.Exec(`
		INSERT INTO theme_guesses
			(player_id, week_key, guess_day, guess, method, confidence, is_correct, guessed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.PlayerID, attempt.WeekKey, formatDate(attempt.GuessedAt),
		attempt.Guess, attempt.Method, attempt.Confidence,
		boolToInt(attempt.IsCorrect), formatTime(attempt.GuessedAt))
	if err != nil {
		return fmt.Errorf("failed to save theme attempt: %w", err)
	}
	return nil
}

func scanThemeAttempt(row rowScanner) (*models.ThemeGuessAttempt, error) {
	var attempt models.ThemeGuessAttempt
	var isCorrect int
	var guessedAt string
	err := row.Scan(&attempt.PlayerID, &attempt.WeekKey, &attempt.Guess,
		&attempt.Method, &attempt.Confidence, &isCorrect, &guessedAt)
	if err != nil {
		return nil, err
	}
	attempt.IsCorrect = isCorrect != 0
	attempt.GuessedAt = parseTime(guessedAt)
	return &attempt, nil
}

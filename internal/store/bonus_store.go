package store

import (
	"context"
	"database/sql"
	"fmt"

	models "definegame/internal/models"
)

// BonusRepository persists bonus attempts and finalized results. The
// (word_id, player_id, attempt_number) primary key is the idempotency key.
type BonusRepository struct {
	db *DB
}

func NewBonusRepository(db *DB) *BonusRepository {
	return &BonusRepository{db: db}
}

// GetAttempt returns a previously scored attempt or nil.
func (r *BonusRepository) GetAttempt(ctx context.Context, wordID, playerID string, attemptNumber int) (*models.BonusAttempt, error) {
	row := r.db.QueryRow(`
		SELECT word_id, player_id, attempt_number, guess, distance, tier, created_at
		FROM bonus_attempts
		WHERE word_id = ? AND player_id = ? AND attempt_number = ?`,
		wordID, playerID, attemptNumber)

	attempt, err := scanBonusAttempt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bonus attempt: %w", err)
	}
	return attempt, nil
}

func (r *BonusRepository) SaveAttempt(ctx context.Context, attempt *models.BonusAttempt) error {
	_, err := r.db.Exec(`
		INSERT INTO bonus_attempts
			(word_id, player_id, attempt_number, guess, distance, tier, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attempt.WordID, attempt.PlayerID, attempt.AttemptNumber,
		attempt.Guess, attempt.Distance, attempt.Tier, formatTime(attempt.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save bonus attempt: %w", err)
	}
	return nil
}

func (r *BonusRepository) CountAttempts(ctx context.Context, wordID, playerID string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM bonus_attempts
		WHERE word_id = ? AND player_id = ?`, wordID, playerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bonus attempts: %w", err)
	}
	return count, nil
}

func (r *BonusRepository) ListAttempts(ctx context.Context, wordID, playerID string) ([]*models.BonusAttempt, error) {
	rows, err := r.db.Query(`
		SELECT word_id, player_id, attempt_number, guess, distance, tier, created_at
		FROM bonus_attempts
		WHERE word_id = ? AND player_id = ?
		ORDER BY attempt_number`, wordID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonus attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*models.BonusAttempt
	for rows.Next() {
		attempt, err := scanBonusAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bonus attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

// SaveResult upserts the finalized aggregate for a session.
func (r *BonusRepository) SaveResult(ctx context.Context, result *models.BonusResult) error {
	res, err := r.db.Exec(`
		UPDATE bonus_results
		SET total_points = ?, attempts_used = ?, finalized_at = ?
		WHERE game_session_id = ?`,
		result.TotalPoints, result.AttemptsUsed, formatTime(result.FinalizedAt),
		result.GameSessionID)
	if err != nil {
		return fmt.Errorf("failed to update bonus result: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		return nil
	}

	_, err = r.db.Exec(`
		INSERT INTO bonus_results
			(game_session_id, player_id, word_id, total_points, attempts_used, finalized_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.GameSessionID, result.PlayerID, result.WordID,
		result.TotalPoints, result.AttemptsUsed, formatTime(result.FinalizedAt))
	if err != nil {
		return fmt.Errorf("failed to insert bonus result: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBonusAttempt(row rowScanner) (*models.BonusAttempt, error) {
	var attempt models.BonusAttempt
	var createdAt string
	err := row.Scan(&attempt.WordID, &attempt.PlayerID, &attempt.AttemptNumber,
		&attempt.Guess, &attempt.Distance, &attempt.Tier, &createdAt)
	if err != nil {
		return nil, err
	}
	attempt.CreatedAt = parseTime(createdAt)
	return &attempt, nil
}

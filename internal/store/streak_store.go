package store

import (
	"context"
	"database/sql"
	"fmt"

	models "definegame/internal/models"
)

// StreakRepository persists one streak record per player.
type StreakRepository struct {
	db *DB
}

func NewStreakRepository(db *DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// GetStreak loads a player's record; a player with no row gets a fresh
// zero-valued record.
func (r *StreakRepository) GetStreak(ctx context.Context, playerID string) (*models.StreakRecord, error) {
	row := r.db.QueryRow(`
		SELECT player_id, current_streak, best_streak, last_win_date
		FROM streaks
		WHERE player_id = ?`, playerID)

	var record models.StreakRecord
	var lastWin sql.NullString
	err := row.Scan(&record.PlayerID, &record.CurrentStreak, &record.BestStreak, &lastWin)
	if err == sql.ErrNoRows {
		return &models.StreakRecord{PlayerID: playerID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	if lastWin.Valid {
		record.LastWinDate = parseDate(lastWin.String)
	}
	return &record, nil
}

// SaveStreak upserts the record, last write wins.
func (r *StreakRepository) SaveStreak(ctx context.Context, record *models.StreakRecord) error {
	res, err := r.db.Exec(`
		UPDATE streaks
		SET current_streak = ?, best_streak = ?, last_win_date = ?
		WHERE player_id = ?`,
		record.CurrentStreak, record.BestStreak,
		formatNullableDate(record.LastWinDate), record.PlayerID)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		return nil
	}

	_, err = r.db.Exec(`
		INSERT INTO streaks (player_id, current_streak, best_streak, last_win_date)
		VALUES (?, ?, ?, ?)`,
		record.PlayerID, record.CurrentStreak, record.BestStreak,
		formatNullableDate(record.LastWinDate))
	if err != nil {
		return fmt.Errorf("failed to insert streak: %w", err)
	}
	return nil
}

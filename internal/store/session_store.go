package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	models "definegame/internal/models"
	theme "definegame/internal/theme"
)

// SessionRepository persists game sessions.
type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// SaveSession upserts a session row. Last write wins; guesses and clue state
// are serialized as JSON payloads.
func (r *SessionRepository) SaveSession(ctx context.Context, session *models.GameSession) error {
	guesses, err := json.Marshal(session.Guesses)
	if err != nil {
		return fmt.Errorf("failed to encode guesses: %w", err)
	}
	revealed, err := json.Marshal(session.RevealedClueKeys)
	if err != nil {
		return fmt.Errorf("failed to encode revealed clues: %w", err)
	}
	statuses, err := json.Marshal(session.ClueStatuses)
	if err != nil {
		return fmt.Errorf("failed to encode clue statuses: %w", err)
	}

	var score sql.NullInt64
	if session.Score != nil {
		score = sql.NullInt64{Int64: int64(*session.Score), Valid: true}
	}
	weekKey := theme.WeekKey(session.StartTime)

	result, err := r.db.Exec(`
		UPDATE game_sessions
		SET guesses = ?, revealed_clues = ?, clue_statuses = ?,
		    is_complete = ?, is_won = ?, score = ?, end_time = ?
		WHERE game_id = ?`,
		string(guesses), string(revealed), string(statuses),
		boolToInt(session.IsComplete), boolToInt(session.IsWon), score,
		formatNullableTime(session.EndTime), session.GameID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		return nil
	}

	_, err = r.db.Exec(`
		INSERT INTO game_sessions
			(game_id, player_id, word_id, week_key, target_word, guesses,
			 revealed_clues, clue_statuses, is_complete, is_won, score,
			 start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.GameID, session.PlayerID, session.WordID, weekKey,
		session.TargetWord, string(guesses), string(revealed), string(statuses),
		boolToInt(session.IsComplete), boolToInt(session.IsWon), score,
		formatTime(session.StartTime), formatNullableTime(session.EndTime),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession loads one session; returns nil when not found.
func (r *SessionRepository) GetSession(ctx context.Context, gameID string) (*models.GameSession, error) {
	row := r.db.QueryRow(`
		SELECT game_id, player_id, word_id, target_word, guesses,
		       revealed_clues, clue_statuses, is_complete, is_won, score,
		       start_time, end_time
		FROM game_sessions
		WHERE game_id = ?`, gameID)

	var (
		session    models.GameSession
		guesses    string
		revealed   string
		statuses   string
		isComplete int
		isWon      int
		score      sql.NullInt64
		startTime  string
		endTime    sql.NullString
	)
	err := row.Scan(&session.GameID, &session.PlayerID, &session.WordID,
		&session.TargetWord, &guesses, &revealed, &statuses,
		&isComplete, &isWon, &score, &startTime, &endTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal([]byte(guesses), &session.Guesses); err != nil {
		return nil, fmt.Errorf("failed to decode guesses: %w", err)
	}
	if err := json.Unmarshal([]byte(revealed), &session.RevealedClueKeys); err != nil {
		return nil, fmt.Errorf("failed to decode revealed clues: %w", err)
	}
	if err := json.Unmarshal([]byte(statuses), &session.ClueStatuses); err != nil {
		return nil, fmt.Errorf("failed to decode clue statuses: %w", err)
	}

	session.IsComplete = isComplete != 0
	session.IsWon = isWon != 0
	if score.Valid {
		v := int(score.Int64)
		session.Score = &v
	}
	session.StartTime = parseTime(startTime)
	if endTime.Valid {
		session.EndTime = parseTime(endTime.String)
	}
	return &session, nil
}

// CountCompletedInWeek counts a player's completed sessions in an ISO week,
// the eligibility gate for the weekly theme guess.
func (r *SessionRepository) CountCompletedInWeek(ctx context.Context, playerID, weekKey string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM game_sessions
		WHERE player_id = ? AND week_key = ? AND is_complete = 1`,
		playerID, weekKey).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed sessions: %w", err)
	}
	return count, nil
}

package store

import (
	"fmt"

	util "definegame/internal/util"
)

// Schema is kept to types every supported dialect accepts: VARCHAR keys,
// TEXT payloads, INTEGER numbers and flags, RFC3339 strings for times.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "001_game_sessions",
		sql: `
			CREATE TABLE IF NOT EXISTS game_sessions (
				game_id VARCHAR(64) PRIMARY KEY,
				player_id VARCHAR(64) NOT NULL,
				word_id VARCHAR(64) NOT NULL,
				week_key VARCHAR(16) NOT NULL,
				target_word TEXT NOT NULL,
				guesses TEXT NOT NULL,
				revealed_clues TEXT NOT NULL,
				clue_statuses TEXT NOT NULL,
				is_complete INTEGER NOT NULL,
				is_won INTEGER NOT NULL,
				score INTEGER,
				start_time VARCHAR(40) NOT NULL,
				end_time VARCHAR(40)
			);
		`,
	},
	{
		name: "002_bonus_attempts",
		sql: `
			CREATE TABLE IF NOT EXISTS bonus_attempts (
				word_id VARCHAR(64) NOT NULL,
				player_id VARCHAR(64) NOT NULL,
				attempt_number INTEGER NOT NULL,
				guess TEXT NOT NULL,
				distance INTEGER NOT NULL,
				tier VARCHAR(16) NOT NULL,
				created_at VARCHAR(40) NOT NULL,
				PRIMARY KEY (word_id, player_id, attempt_number)
			);
		`,
	},
	{
		name: "003_bonus_results",
		sql: `
			CREATE TABLE IF NOT EXISTS bonus_results (
				game_session_id VARCHAR(64) PRIMARY KEY,
				player_id VARCHAR(64) NOT NULL,
				word_id VARCHAR(64) NOT NULL,
				total_points INTEGER NOT NULL,
				attempts_used INTEGER NOT NULL,
				finalized_at VARCHAR(40) NOT NULL
			);
		`,
	},
	{
		name: "004_weekly_themes",
		sql: `
			CREATE TABLE IF NOT EXISTS weekly_themes (
				week_key VARCHAR(16) PRIMARY KEY,
				theme TEXT NOT NULL
			);
		`,
	},
	{
		name: "005_theme_guesses",
		sql: `
			CREATE TABLE IF NOT EXISTS theme_guesses (
				player_id VARCHAR(64) NOT NULL,
				week_key VARCHAR(16) NOT NULL,
				guess_day VARCHAR(10) NOT NULL,
				guess TEXT NOT NULL,
				method VARCHAR(16) NOT NULL,
				confidence INTEGER NOT NULL,
				is_correct INTEGER NOT NULL,
				guessed_at VARCHAR(40) NOT NULL
			);
		`,
	},
	{
		name: "006_streaks",
		sql: `
			CREATE TABLE IF NOT EXISTS streaks (
				player_id VARCHAR(64) PRIMARY KEY,
				current_streak INTEGER NOT NULL,
				best_streak INTEGER NOT NULL,
				last_win_date VARCHAR(10)
			);
		`,
	},
}

// RunMigrations applies all pending schema migrations in order, tracking
// completed ones in the migrations table.
func (db *DB) RunMigrations() error {
	if _, err := db.DB.Exec(db.Dialect.CreateMigrationsTableQuery()); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		hasRun, err := db.hasMigrationRun(m.name)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", m.name, err)
		}
		if hasRun {
			continue
		}

		if _, err := db.DB.Exec(m.sql); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", m.name, err)
		}
		if _, err := db.Exec("INSERT INTO migrations (name) VALUES (?)", m.name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.name, err)
		}
		util.LogInfo("Migration completed: %s", m.name)
	}
	return nil
}

func (db *DB) hasMigrationRun(name string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

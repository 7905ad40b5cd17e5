package game

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	constants "definegame/internal/constants"
	models "definegame/internal/models"
	util "definegame/internal/util"
)

// NormalizeGuess trims and case-folds a raw guess before comparison.
func NormalizeGuess(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// NewSession starts a session against the daily word.
func NewSession(app *models.App, ctx context.Context, playerID string) *models.GameSession {
	reqID, _ := ctx.Value(constants.RequestIDKey).(string)

	entry := app.Dictionary.WordOfDay(time.Now())
	session := &models.GameSession{
		GameID:           uuid.NewString(),
		PlayerID:         playerID,
		WordID:           entry.ID,
		TargetWord:       entry.Word,
		Guesses:          []string{},
		RevealedClueKeys: []models.ClueKey{},
		ClueStatuses:     make(map[int]string),
		StartTime:        time.Now(),
		LastAccessTime:   time.Now(),
	}

	if reqID != "" {
		util.LogInfo("[request_id=%v] New game %s for player %s, word: %s", reqID, session.GameID, playerID, entry.Word)
	} else {
		util.LogInfo("New game %s for player %s, word: %s", session.GameID, playerID, entry.Word)
	}
	return session
}

// Evaluate classifies one submitted guess and advances the session: the
// guess is recorded, exactly one more clue is revealed regardless of the
// classification, and terminal state is applied. Returns the classification.
func Evaluate(session *models.GameSession, rawGuess string) (string, error) {
	if session.IsComplete {
		util.LogWarn("Game %s attempted guess after completion", session.GameID)
		return "", errors.New(constants.ErrorCodeGameOver)
	}

	guess := NormalizeGuess(rawGuess)
	if guess == "" {
		return "", errors.New(constants.ErrorCodeEmptyGuess)
	}
	if slices.Contains(session.Guesses, guess) {
		return "", errors.New(constants.ErrorCodeDuplicateGuess)
	}
	if len(session.Guesses) >= constants.MaxGuesses {
		return "", errors.New(constants.ErrorCodeNoMoreGuesses)
	}

	target := NormalizeGuess(session.TargetWord)
	classification := Classify(guess, target)

	session.Guesses = append(session.Guesses, guess)
	attempt := len(session.Guesses)
	session.RevealedClueKeys = append(session.RevealedClueKeys, models.ClueSequence[attempt-1])
	session.ClueStatuses[attempt] = classification
	session.LastAccessTime = time.Now()

	if classification == constants.GuessStatusCorrect {
		session.IsWon = true
	}
	if session.IsWon || attempt >= constants.MaxGuesses {
		complete(session)
	}
	return classification, nil
}

// Classify compares a normalized guess against the normalized target.
func Classify(guess, target string) string {
	if guess == target {
		return constants.GuessStatusCorrect
	}
	if isFuzzyMatch(guess, target) {
		return constants.GuessStatusFuzzy
	}
	return constants.GuessStatusIncorrect
}

// complete freezes the session and records the final score.
func complete(session *models.GameSession) {
	session.IsComplete = true
	session.EndTime = time.Now()
	score := ComputeScore(session)
	session.Score = &score

	if session.IsWon {
		util.LogInfo("Game %s won in %d guesses, score %d", session.GameID, session.GuessesUsed(), score)
	} else {
		util.LogInfo("Game %s lost, target was %s, score %d", session.GameID, session.TargetWord, score)
	}
}

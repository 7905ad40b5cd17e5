package bonus

import (
	"context"
	"errors"
	"fmt"
	"time"

	constants "definegame/internal/constants"
	dictionary "definegame/internal/dictionary"
	models "definegame/internal/models"
	util "definegame/internal/util"
)

// Engine scores bonus-round guesses by their rank distance from the target.
// Only sessions won with unused guesses have a bonus round; each accepted
// guess consumes one attempt slot keyed by attemptNumber.
type Engine struct {
	dict  models.Dictionary
	store models.BonusStore
}

func NewEngine(dict models.Dictionary, store models.BonusStore) *Engine {
	return &Engine{dict: dict, store: store}
}

// TierFor maps a rank distance to its quality tier.
func TierFor(distance int) string {
	switch {
	case distance <= constants.BonusPerfectMaxDistance:
		return constants.TierPerfect
	case distance <= constants.BonusGoodMaxDistance:
		return constants.TierGood
	case distance <= constants.BonusAverageMaxDistance:
		return constants.TierAverage
	default:
		return constants.TierMiss
	}
}

// TierPoints is the contribution of one tier to the finalized aggregate.
func TierPoints(tier string) int {
	switch tier {
	case constants.TierPerfect:
		return constants.BonusPerfectPoints
	case constants.TierGood:
		return constants.BonusGoodPoints
	case constants.TierAverage:
		return constants.BonusAveragePoints
	default:
		return constants.BonusMissPoints
	}
}

// ScoreGuess validates and scores one bonus guess. Rejections do not consume
// an attempt. Resubmitting a previously scored attemptNumber returns the
// recorded result unchanged.
func (e *Engine) ScoreGuess(ctx context.Context, session *models.GameSession, rawGuess string, attemptNumber int) (*models.BonusAttempt, error) {
	if !session.IsComplete || !session.IsWon || session.RemainingAttempts() <= 0 {
		return nil, errors.New(constants.ErrorCodeBonusNotActive)
	}
	if attemptNumber < 1 || attemptNumber > session.RemainingAttempts() {
		return nil, errors.New(constants.ErrorCodeInvalidAttempt)
	}

	existing, err := e.store.GetAttempt(ctx, session.WordID, session.PlayerID, attemptNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrorCodeStoreUnavailable, err)
	}
	if existing != nil {
		util.LogInfo("Bonus attempt %d for word %s already scored, returning recorded result", attemptNumber, session.WordID)
		return existing, nil
	}

	guess := dictionary.Normalize(rawGuess)
	if guess == "" {
		return nil, errors.New(constants.ErrorCodeInvalidGuess)
	}

	target := dictionary.Normalize(session.TargetWord)
	if guess == target {
		return nil, errors.New(constants.ErrorCodeSameWord)
	}

	targetRank, ok := e.dict.RankOf(target)
	if !ok {
		// Fatal for the feature: the rank space has no anchor.
		util.LogError("Bonus round disabled for word %s: target rank unresolved", session.WordID)
		return nil, errors.New(constants.ErrorCodeTargetNotFound)
	}

	guessRank, ok := e.dict.RankOf(guess)
	if !ok {
		return nil, errors.New(constants.ErrorCodeNotInDictionary)
	}

	distance := guessRank - targetRank
	if distance < 0 {
		distance = -distance
	}

	attempt := &models.BonusAttempt{
		WordID:        session.WordID,
		PlayerID:      session.PlayerID,
		AttemptNumber: attemptNumber,
		Guess:         guess,
		Distance:      distance,
		Tier:          TierFor(distance),
		CreatedAt:     time.Now(),
	}
	if err := e.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrorCodeStoreUnavailable, err)
	}

	util.LogInfo("Bonus attempt %d for word %s: %s at distance %d -> %s",
		attemptNumber, session.WordID, guess, distance, attempt.Tier)
	return attempt, nil
}

// Finalize persists the aggregate bonus outcome once the player stops.
// Callers treat a failure here as non-fatal.
func (e *Engine) Finalize(ctx context.Context, gameSessionID, playerID, wordID string) (*models.BonusResult, error) {
	attempts, err := e.store.ListAttempts(ctx, wordID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonus attempts: %w", err)
	}

	total := 0
	for _, attempt := range attempts {
		total += TierPoints(attempt.Tier)
	}

	result := &models.BonusResult{
		GameSessionID: gameSessionID,
		PlayerID:      playerID,
		WordID:        wordID,
		TotalPoints:   total,
		AttemptsUsed:  len(attempts),
		FinalizedAt:   time.Now(),
	}
	if err := e.store.SaveResult(ctx, result); err != nil {
		return result, fmt.Errorf("failed to persist bonus result: %w", err)
	}
	return result, nil
}

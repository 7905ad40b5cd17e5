package game

import (
	constants "definegame/internal/constants"
	models "definegame/internal/models"
)

// ComputeScore converts a finished session's guess history into its score:
// base minus a small penalty per guess used, plus a bonus per fuzzy match.
// A loss scores the same formula with all six guesses consumed; IsWon is
// recorded separately and the losing score is informational only.
func ComputeScore(session *models.GameSession) int {
	fuzzyCount := 0
	for _, status := range session.ClueStatuses {
		if status == constants.GuessStatusFuzzy {
			fuzzyCount++
		}
	}
	return constants.BaseScore +
		fuzzyCount*constants.FuzzyBonus -
		session.GuessesUsed()*constants.GuessPenalty
}

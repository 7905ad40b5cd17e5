package game

import (
	"strconv"
	"strings"

	models "definegame/internal/models"
)

// Clue is one revealed clue as shown to the player.
type Clue struct {
	Key   models.ClueKey `json:"key"`
	Label string         `json:"label"`
	Value string         `json:"value"`
}

var clueLabels = map[models.ClueKey]string{
	models.ClueDefinition:       "Definition",
	models.ClueEtymology:        "Etymology",
	models.ClueFirstLetter:      "First letter",
	models.ClueInASentence:      "In a sentence",
	models.ClueNumberOfLetters:  "Number of letters",
	models.ClueSecondDefinition: "Definition #2",
}

// ClueValue renders the content backing one clue key for a word entry.
func ClueValue(entry models.WordEntry, key models.ClueKey) string {
	switch key {
	case models.ClueDefinition:
		return entry.Definition
	case models.ClueEtymology:
		return entry.Etymology
	case models.ClueFirstLetter:
		word := strings.TrimSpace(entry.Word)
		if word == "" {
			return ""
		}
		return strings.ToUpper(word[:1])
	case models.ClueInASentence:
		return entry.Example
	case models.ClueNumberOfLetters:
		return strconv.Itoa(len(strings.TrimSpace(entry.Word)))
	case models.ClueSecondDefinition:
		if entry.SecondDefinition != "" {
			return entry.SecondDefinition
		}
		return entry.Definition
	}
	return ""
}

// RevealedClues expands a session's revealed keys into displayable clues.
func RevealedClues(entry models.WordEntry, keys []models.ClueKey) []Clue {
	clues := make([]Clue, 0, len(keys))
	for _, key := range keys {
		clues = append(clues, Clue{Key: key, Label: clueLabels[key], Value: ClueValue(entry, key)})
	}
	return clues
}

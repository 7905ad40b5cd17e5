package theme

import (
	"context"
	"math"
	"strings"

	constants "definegame/internal/constants"
	models "definegame/internal/models"
	util "definegame/internal/util"
)

// Matcher evaluates a free-text theme guess through three stages, stopping
// at the first one that produces a match: exact string equality, the curated
// synonym table, then the semantic similarity service.
type Matcher struct {
	synonyms models.SynonymTable
	semantic models.SemanticSimilarity
}

func NewMatcher(synonyms models.SynonymTable, semantic models.SemanticSimilarity) *Matcher {
	return &Matcher{synonyms: synonyms, semantic: semantic}
}

// NormalizePhrase case-folds and collapses interior whitespace.
func NormalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Match scores one guess against the actual theme. A semantic-service
// failure yields method "error" with zero confidence: the guess is never
// accepted on a failed lookup.
func (m *Matcher) Match(ctx context.Context, actualTheme, guess string) models.ThemeMatchResult {
	theme := NormalizePhrase(actualTheme)
	normalized := NormalizePhrase(guess)

	if normalized != "" && normalized == theme {
		return models.ThemeMatchResult{
			Method:     constants.ThemeMethodExact,
			Confidence: 100,
			IsCorrect:  true,
		}
	}

	if confidence, ok := m.synonyms.Lookup(theme, normalized); ok {
		return models.ThemeMatchResult{
			Method:     constants.ThemeMethodSynonym,
			Confidence: confidence,
			IsCorrect:  confidence >= constants.ThemeAcceptanceThreshold,
		}
	}

	similarity, err := m.semantic.Similarity(ctx, theme, normalized)
	if err != nil {
		util.LogWarn("Semantic similarity lookup failed for theme guess: %v", err)
		return models.ThemeMatchResult{
			Method:     constants.ThemeMethodError,
			Confidence: 0,
			IsCorrect:  false,
		}
	}

	confidence := int(math.Round(similarity * 100))
	if confidence < 0 {
		confidence = 0
	} else if confidence > 100 {
		confidence = 100
	}
	return models.ThemeMatchResult{
		Method:     constants.ThemeMethodSemantic,
		Confidence: confidence,
		IsCorrect:  confidence >= constants.ThemeAcceptanceThreshold,
	}
}

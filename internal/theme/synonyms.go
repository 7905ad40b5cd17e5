package theme

import (
	"encoding/json"
	"fmt"
	"os"

	util "definegame/internal/util"
)

// SynonymEntry is one curated pairing between a theme and an accepted
// synonym or category phrase.
type SynonymEntry struct {
	Theme      string `json:"theme"`
	Synonym    string `json:"synonym"`
	Confidence int    `json:"confidence"`
}

// Table is an in-memory symmetric synonym lookup keyed by normalized phrase.
type Table struct {
	pairs map[string]map[string]int
}

// NewTable builds a table from curated entries. Lookups are symmetric.
func NewTable(entries []SynonymEntry) *Table {
	pairs := make(map[string]map[string]int)
	add := func(a, b string, confidence int) {
		if pairs[a] == nil {
			pairs[a] = make(map[string]int)
		}
		pairs[a][b] = confidence
	}
	for _, e := range entries {
		theme := NormalizePhrase(e.Theme)
		synonym := NormalizePhrase(e.Synonym)
		if theme == "" || synonym == "" {
			util.LogWarn("Skipping synonym entry with empty phrase: %+v", e)
			continue
		}
		add(theme, synonym, e.Confidence)
		add(synonym, theme, e.Confidence)
	}
	return &Table{pairs: pairs}
}

// LoadTable reads the curated synonym table from a JSON file.
func LoadTable(path string) (*Table, error) {
	util.LogInfo("Loading synonym table from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read synonym table: %w", err)
	}

	var entries []SynonymEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse synonym table: %w", err)
	}

	util.LogInfo("Loaded %d synonym entries", len(entries))
	return NewTable(entries), nil
}

func (t *Table) Lookup(theme, guess string) (int, bool) {
	confidence, ok := t.pairs[NormalizePhrase(theme)][NormalizePhrase(guess)]
	return confidence, ok
}

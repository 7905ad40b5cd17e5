package dictionary

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	models "definegame/internal/models"
	util "definegame/internal/util"
)

// Dictionary is the in-memory ranked word list. Ranks are 1-based positions
// in the lexicographic ordering of normalized words and are fixed at load.
type Dictionary struct {
	entries []models.WordEntry
	byID    map[string]models.WordEntry
	ranks   map[string]int
}

type wordFile struct {
	Words []models.WordEntry `json:"words"`
}

// Normalize lowercases and strips everything but ASCII letters, matching the
// normalization the ranked word list was built with.
func Normalize(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	for _, ch := range lowered {
		if ch >= 'a' && ch <= 'z' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// Load reads the word file and computes the rank table.
func Load(path string) (*Dictionary, error) {
	util.LogInfo("Loading dictionary from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file: %w", err)
	}

	var wf wordFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary file: %w", err)
	}

	entries := lo.Filter(wf.Words, func(entry models.WordEntry, _ int) bool {
		if Normalize(entry.Word) == "" {
			util.LogWarn("Skipping entry %q: no letters after normalization", entry.Word)
			return false
		}
		return true
	})
	if len(entries) == 0 {
		return nil, fmt.Errorf("dictionary file %s contains no usable words", path)
	}

	d := New(entries)
	util.LogInfo("Loaded %d dictionary entries, rank range 1..%d", len(entries), len(d.ranks))
	return d, nil
}

// New builds a dictionary from already-parsed entries.
func New(entries []models.WordEntry) *Dictionary {
	sorted := make([]string, 0, len(entries))
	for _, e := range entries {
		sorted = append(sorted, Normalize(e.Word))
	}
	sort.Strings(sorted)

	ranks := make(map[string]int, len(sorted))
	for i, w := range sorted {
		// First occurrence wins so duplicate spellings share a rank.
		if _, seen := ranks[w]; !seen {
			ranks[w] = i + 1
		}
	}

	byID := lo.Associate(entries, func(e models.WordEntry) (string, models.WordEntry) {
		return e.ID, e
	})

	return &Dictionary{entries: entries, byID: byID, ranks: ranks}
}

func (d *Dictionary) Contains(word string) bool {
	_, ok := d.ranks[Normalize(word)]
	return ok
}

func (d *Dictionary) RankOf(word string) (int, bool) {
	rank, ok := d.ranks[Normalize(word)]
	return rank, ok
}

func (d *Dictionary) EntryByID(wordID string) (models.WordEntry, bool) {
	entry, ok := d.byID[wordID]
	return entry, ok
}

func (d *Dictionary) Len() int {
	return len(d.entries)
}

// WordOfDay picks the shared daily target. The choice is a pure function of
// the UTC date so every player sees the same word.
func (d *Dictionary) WordOfDay(date time.Time) models.WordEntry {
	day := date.UTC().Format("2006-01-02")
	h := fnv.New32a()
	h.Write([]byte(day))
	idx := int(h.Sum32()) % len(d.entries)
	if idx < 0 {
		idx += len(d.entries)
	}
	return d.entries[idx]
}

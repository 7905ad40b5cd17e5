package models

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClueKey identifies one slot of the DEFINE clue sequence.
type ClueKey string

const (
	ClueDefinition       ClueKey = "D"
	ClueEtymology        ClueKey = "E"
	ClueFirstLetter      ClueKey = "F"
	ClueInASentence      ClueKey = "I"
	ClueNumberOfLetters  ClueKey = "N"
	ClueSecondDefinition ClueKey = "E2"
)

// ClueSequence is the fixed reveal order; slot n is revealed by guess n+1.
var ClueSequence = [6]ClueKey{
	ClueDefinition,
	ClueEtymology,
	ClueFirstLetter,
	ClueInASentence,
	ClueNumberOfLetters,
	ClueSecondDefinition,
}

// WordEntry is one dictionary entry with the material backing each clue.
type WordEntry struct {
	ID               string `json:"id"`
	Word             string `json:"word"`
	PartOfSpeech     string `json:"partOfSpeech"`
	Definition       string `json:"definition"`
	Etymology        string `json:"etymology"`
	Example          string `json:"example"`
	SecondDefinition string `json:"secondDefinition"`
}

// GameSession is one player's run at the daily word. Mutated only by the
// guess evaluator; frozen once IsComplete is set.
type GameSession struct {
	GameID           string         `json:"gameId"`
	PlayerID         string         `json:"playerId"`
	WordID           string         `json:"wordId"`
	TargetWord       string         `json:"targetWord"`
	Guesses          []string       `json:"guesses"`
	RevealedClueKeys []ClueKey      `json:"revealedClueKeys"`
	ClueStatuses     map[int]string `json:"clueStatuses"`
	IsComplete       bool           `json:"isComplete"`
	IsWon            bool           `json:"isWon"`
	Score            *int           `json:"score,omitempty"`
	StartTime        time.Time      `json:"startTime"`
	EndTime          time.Time      `json:"endTime,omitzero"`
	LastAccessTime   time.Time      `json:"-"`
}

// GuessesUsed returns the number of attempts consumed so far.
func (s *GameSession) GuessesUsed() int {
	return len(s.Guesses)
}

// RemainingAttempts is the number of unused guesses, the bonus round budget.
func (s *GameSession) RemainingAttempts() int {
	return len(ClueSequence) - len(s.Guesses)
}

// BonusAttempt is one scored bonus-round guess. AttemptNumber is the
// idempotency key within a session.
type BonusAttempt struct {
	WordID        string    `json:"wordId"`
	PlayerID      string    `json:"playerId"`
	AttemptNumber int       `json:"attemptNumber"`
	Guess         string    `json:"guess"`
	Distance      int       `json:"distance"`
	Tier          string    `json:"tier"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BonusResult is the finalized aggregate of a session's bonus round.
type BonusResult struct {
	GameSessionID string    `json:"gameSessionId"`
	PlayerID      string    `json:"playerId"`
	WordID        string    `json:"wordId"`
	TotalPoints   int       `json:"totalPoints"`
	AttemptsUsed  int       `json:"attemptsUsed"`
	FinalizedAt   time.Time `json:"finalizedAt"`
}

// ThemeGuessAttempt records one weekly theme guess and its evaluation.
type ThemeGuessAttempt struct {
	PlayerID   string    `json:"playerId"`
	WeekKey    string    `json:"weekKey"`
	Guess      string    `json:"guess"`
	Method     string    `json:"method"`
	Confidence int       `json:"confidence"`
	IsCorrect  bool      `json:"isCorrect"`
	GuessedAt  time.Time `json:"guessedAt"`
}

// ThemeMatchResult is the outcome of matching one guess against the theme.
type ThemeMatchResult struct {
	Method     string `json:"method"`
	Confidence int    `json:"confidence"`
	IsCorrect  bool   `json:"isCorrect"`
}

// StreakRecord tracks consecutive-day wins. BestStreak never decreases and
// is always >= CurrentStreak. A zero LastWinDate means no recorded win.
type StreakRecord struct {
	PlayerID      string    `json:"playerId"`
	CurrentStreak int       `json:"currentStreak"`
	BestStreak    int       `json:"bestStreak"`
	LastWinDate   time.Time `json:"lastWinDate,omitzero"`
}

// RateLimiterWithTime pairs a limiter with its last access for cleanup.
type RateLimiterWithTime struct {
	Limiter    *rate.Limiter
	LastAccess time.Time
}

// App carries shared server state: collaborator handles, the in-memory
// session cache and the rate limiter map.
type App struct {
	Dictionary Dictionary
	Synonyms   SynonymTable
	Semantic   SemanticSimilarity

	Sessions SessionStore
	Bonus    BonusStore
	Themes   ThemeStore
	Streaks  StreakStore

	GameSessions map[string]*GameSession
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*RateLimiterWithTime
	LimiterMutex sync.RWMutex

	IsProduction   bool
	StartTime      time.Time
	CookieMaxAge   time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	RateLimiterTTL time.Duration
	SessionTTL     time.Duration
}

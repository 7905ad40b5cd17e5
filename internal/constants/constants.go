package constants

const (
	MaxGuesses = 6
)

// Scoring formula constants.
const (
	BaseScore    = 800
	FuzzyBonus   = 25
	GuessPenalty = 2
)

// Bonus round tier thresholds over lexicographic rank distance.
// Historical docs also quoted 10/20/30; this table is the canonical one.
const (
	BonusPerfectMaxDistance = 10
	BonusGoodMaxDistance    = 25
	BonusAverageMaxDistance = 50
)

// Points contributed by each bonus tier to the finalized aggregate.
const (
	BonusPerfectPoints = 50
	BonusGoodPoints    = 25
	BonusAveragePoints = 10
	BonusMissPoints    = 0
)

const (
	TierPerfect = "perfect"
	TierGood    = "good"
	TierAverage = "average"
	TierMiss    = "miss"
)

const (
	GuessStatusCorrect   = "correct"
	GuessStatusFuzzy     = "fuzzy"
	GuessStatusIncorrect = "incorrect"
)

// Fuzzy classification band.
const (
	FuzzyMaxEditDistance  = 2
	FuzzyMinDiceSimilarity = 0.55
)

const (
	ThemeMethodExact    = "exact"
	ThemeMethodSynonym  = "synonym"
	ThemeMethodSemantic = "semantic"
	ThemeMethodError    = "error"
)

// ThemeAcceptanceThreshold is the calibrated confidence cutoff: the smallest
// threshold that rejects all known cross-domain false positives (basketball
// vs baseball, ~75) while retaining at least 75% of known true synonyms
// (boozing vs drinking alcohol ~92, mythology vs legends ~88).
const ThemeAcceptanceThreshold = 90

const (
	SessionCookieName = "session_id"
)

type ContextKey string

const RequestIDKey ContextKey = "request_id"

const (
	RouteHome          = "/"
	RouteGuess         = "/guess"
	RouteGameState     = "/game-state"
	RouteBonusGuess    = "/bonus/guess"
	RouteBonusFinalize = "/bonus/finalize"
	RouteThemeGuess    = "/theme/guess"
	RouteThemeStatus   = "/theme/status"
	RouteStreak        = "/streak"
	RouteHealthz       = "/healthz"
)

const (
	ErrorCodeGameOver          = "game_over"
	ErrorCodeEmptyGuess        = "empty_guess"
	ErrorCodeDuplicateGuess    = "duplicate_guess"
	ErrorCodeNoMoreGuesses     = "no_more_guesses"
	ErrorCodeNotInDictionary   = "not_in_dictionary"
	ErrorCodeSameWord          = "same_word"
	ErrorCodeTargetNotFound    = "target_not_found"
	ErrorCodeInvalidGuess      = "invalid_guess"
	ErrorCodeInvalidAttempt    = "invalid_attempt"
	ErrorCodeBonusNotActive    = "bonus_not_active"
	ErrorCodeAlreadyGuessed    = "already_guessed_today"
	ErrorCodeThemeSolved       = "theme_already_solved"
	ErrorCodeThemeNotEligible  = "theme_not_eligible"
	ErrorCodeThemeUnavailable  = "theme_unavailable"
	ErrorCodeStoreUnavailable  = "store_unavailable"
)

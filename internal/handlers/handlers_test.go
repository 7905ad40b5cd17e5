package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	constants "definegame/internal/constants"
	dictionary "definegame/internal/dictionary"
	models "definegame/internal/models"
	theme "definegame/internal/theme"
)

const testPlayerID = "test-player-0000000000"

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.GameSession
}

func (s *memSessionStore) SaveSession(ctx context.Context, session *models.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.GameID] = session
	return nil
}

func (s *memSessionStore) GetSession(ctx context.Context, gameID string) (*models.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[gameID], nil
}

func (s *memSessionStore) CountCompletedInWeek(ctx context.Context, playerID, weekKey string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, session := range s.sessions {
		if session.PlayerID == playerID && session.IsComplete {
			count++
		}
	}
	return count, nil
}

type memBonusStore struct {
	mu       sync.Mutex
	attempts map[string]*models.BonusAttempt
	results  []*models.BonusResult
}

func bonusKey(wordID, playerID string, attemptNumber int) string {
	return fmt.Sprintf("%s:%s:%d", wordID, playerID, attemptNumber)
}

func (s *memBonusStore) GetAttempt(ctx context.Context, wordID, playerID string, attemptNumber int) (*models.BonusAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[bonusKey(wordID, playerID, attemptNumber)], nil
}

func (s *memBonusStore) SaveAttempt(ctx context.Context, attempt *models.BonusAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[bonusKey(attempt.WordID, attempt.PlayerID, attempt.AttemptNumber)] = attempt
	return nil
}

func (s *memBonusStore) CountAttempts(ctx context.Context, wordID, playerID string) (int, error) {
	list, _ := s.ListAttempts(ctx, wordID, playerID)
	return len(list), nil
}

func (s *memBonusStore) ListAttempts(ctx context.Context, wordID, playerID string) ([]*models.BonusAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*models.BonusAttempt
	for n := 1; n <= len(models.ClueSequence); n++ {
		if attempt, ok := s.attempts[bonusKey(wordID, playerID, n)]; ok {
			list = append(list, attempt)
		}
	}
	return list, nil
}

func (s *memBonusStore) SaveResult(ctx context.Context, result *models.BonusResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

type memThemeStore struct {
	mu       sync.Mutex
	themes   map[string]string
	attempts []*models.ThemeGuessAttempt
}

func (s *memThemeStore) GetWeeklyTheme(ctx context.Context, weekKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.themes[weekKey], nil
}

func (s *memThemeStore) GetCorrectAttempt(ctx context.Context, playerID, weekKey string) (*models.ThemeGuessAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, attempt := range s.attempts {
		if attempt.PlayerID == playerID && attempt.WeekKey == weekKey && attempt.IsCorrect {
			return attempt, nil
		}
	}
	return nil, nil
}

func (s *memThemeStore) HasAttemptOnDay(ctx context.Context, playerID, weekKey string, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, attempt := range s.attempts {
		if attempt.PlayerID == playerID && attempt.WeekKey == weekKey &&
			attempt.GuessedAt.UTC().Format("2006-01-02") == day.UTC().Format("2006-01-02") {
			return true, nil
		}
	}
	return false, nil
}

func (s *memThemeStore) SaveAttempt(ctx context.Context, attempt *models.ThemeGuessAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, attempt)
	return nil
}

type memStreakStore struct {
	mu      sync.Mutex
	records map[string]*models.StreakRecord
}

func (s *memStreakStore) GetStreak(ctx context.Context, playerID string) (*models.StreakRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[playerID]; ok {
		copied := *record
		return &copied, nil
	}
	return &models.StreakRecord{PlayerID: playerID}, nil
}

func (s *memStreakStore) SaveStreak(ctx context.Context, record *models.StreakRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.records[record.PlayerID] = &copied
	return nil
}

type stubSemantic struct {
	similarity float64
}

func (s *stubSemantic) Similarity(ctx context.Context, a, b string) (float64, error) {
	return s.similarity, nil
}

func testWords() []models.WordEntry {
	words := []string{"movement", "motion", "gesture", "zephyr", "penumbra", "labyrinth", "quixotic", "taciturn"}
	entries := make([]models.WordEntry, 0, len(words))
	for i, word := range words {
		entries = append(entries, models.WordEntry{
			ID:               fmt.Sprintf("w-%03d", i+1),
			Word:             word,
			PartOfSpeech:     "noun",
			Definition:       "definition of " + word,
			Etymology:        "etymology of " + word,
			Example:          "a sentence using the word",
			SecondDefinition: "second definition of " + word,
		})
	}
	return entries
}

type fixture struct {
	app    *models.App
	router *gin.Engine
	themes *memThemeStore
	streak *memStreakStore
	bonus  *memBonusStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	themes := &memThemeStore{themes: make(map[string]string)}
	streaks := &memStreakStore{records: make(map[string]*models.StreakRecord)}
	bonusStore := &memBonusStore{attempts: make(map[string]*models.BonusAttempt)}

	app := &models.App{
		Dictionary: dictionary.New(testWords()),
		Synonyms: theme.NewTable([]theme.SynonymEntry{
			{Theme: "drinking alcohol", Synonym: "boozing", Confidence: 92},
		}),
		Semantic:     &stubSemantic{similarity: 0.2},
		Sessions:     &memSessionStore{sessions: make(map[string]*models.GameSession)},
		Bonus:        bonusStore,
		Themes:       themes,
		Streaks:      streaks,
		GameSessions: make(map[string]*models.GameSession),
		LimiterMap:   make(map[string]*models.RateLimiterWithTime),
		StartTime:    time.Now(),
		CookieMaxAge: 24 * time.Hour,
		SessionTTL:   2 * time.Hour,
	}

	h := New(app, 2*time.Minute)
	router := gin.New()
	router.GET(constants.RouteGameState, h.GameStateHandler)
	router.POST(constants.RouteGuess, h.GuessHandler)
	router.POST(constants.RouteBonusGuess, h.BonusGuessHandler)
	router.POST(constants.RouteBonusFinalize, h.BonusFinalizeHandler)
	router.POST(constants.RouteThemeGuess, h.ThemeGuessHandler)
	router.GET(constants.RouteThemeStatus, h.ThemeStatusHandler)
	router.GET(constants.RouteStreak, h.StreakHandler)
	router.GET(constants.RouteHealthz, h.HealthzHandler)

	return &fixture{app: app, router: router, themes: themes, streak: streaks, bonus: bonusStore}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: testPlayerID})

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var parsed map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func (f *fixture) targetWord() string {
	return f.app.Dictionary.WordOfDay(time.Now()).Word
}

func (f *fixture) otherWord() string {
	target := f.targetWord()
	for _, entry := range testWords() {
		if entry.Word != target && !fuzzyPair(entry.Word, target) {
			return entry.Word
		}
	}
	return ""
}

// fuzzyPair mirrors the classifier closely enough to pick clearly unrelated
// words for tests that need an incorrect guess.
func fuzzyPair(a, b string) bool {
	return a == "movement" && b == "motion" || a == "motion" && b == "movement"
}

func TestGameStateHandler_CreatesSession(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodGet, constants.RouteGameState, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["isComplete"])
	assert.Equal(t, float64(0), body["guessesUsed"])
	assert.Equal(t, float64(6), body["remainingAttempts"])
	assert.NotContains(t, body, "targetWord", "live games must not expose the target")
}

func TestGuessHandler_RevealsClueAndClassifies(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.otherWord()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.GuessStatusIncorrect, body["classification"])
	assert.Equal(t, float64(1), body["guessesUsed"])

	clues, ok := body["clues"].([]any)
	require.True(t, ok)
	require.Len(t, clues, 1)
	first := clues[0].(map[string]any)
	assert.Equal(t, "D", first["key"])
	assert.NotEmpty(t, first["value"])
}

func TestGuessHandler_WinRevealsTargetAndScore(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.targetWord()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.GuessStatusCorrect, body["classification"])
	assert.Equal(t, true, body["isWon"])
	assert.Equal(t, true, body["isComplete"])
	assert.Equal(t, f.targetWord(), body["targetWord"])
	assert.Equal(t, float64(798), body["score"])
}

func TestGuessHandler_WinUpdatesStreak(t *testing.T) {
	f := newFixture(t)

	_, _ = f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.targetWord()})

	record, err := f.streak.GetStreak(context.Background(), testPlayerID)
	require.NoError(t, err)
	assert.Equal(t, 1, record.CurrentStreak)
	assert.Equal(t, 1, record.BestStreak)
}

func TestGuessHandler_DuplicateGuessRejected(t *testing.T) {
	f := newFixture(t)
	guess := f.otherWord()

	_, _ = f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": guess})
	w, body := f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": guess})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, constants.ErrorCodeDuplicateGuess, body["error"])
}

func TestGuessHandler_GameOverRejected(t *testing.T) {
	f := newFixture(t)

	_, _ = f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.targetWord()})
	w, body := f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.otherWord()})

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, constants.ErrorCodeGameOver, body["error"])
}

func TestGuessHandler_MalformedBody(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, constants.RouteGuess, bytes.NewReader([]byte("not json")))
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: testPlayerID})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBonusGuessHandler_RequiresFinishedGame(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodPost, constants.RouteBonusGuess, gin.H{"guess": f.otherWord(), "attemptNumber": 1})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, constants.ErrorCodeBonusNotActive, body["error"])
}

func TestBonusGuessHandler_ScoresAfterWin(t *testing.T) {
	f := newFixture(t)
	_, _ = f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.targetWord()})

	w, body := f.do(t, http.MethodPost, constants.RouteBonusGuess, gin.H{"guess": f.otherWord(), "attemptNumber": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "tier")
	assert.Contains(t, body, "distance")
	assert.Equal(t, float64(1), body["attemptNumber"])
}

func TestBonusFinalizeHandler(t *testing.T) {
	f := newFixture(t)
	_, _ = f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.targetWord()})
	_, _ = f.do(t, http.MethodPost, constants.RouteBonusGuess, gin.H{"guess": f.otherWord(), "attemptNumber": 1})

	w, body := f.do(t, http.MethodPost, constants.RouteBonusFinalize, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	result, ok := body["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), result["attemptsUsed"])
	require.Len(t, f.bonus.results, 1)
}

func TestThemeGuessHandler_EmptyGuess(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodPost, constants.RouteThemeGuess, gin.H{"guess": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, constants.ErrorCodeInvalidGuess, body["error"])
}

func TestThemeGuessHandler_NoThemeConfigured(t *testing.T) {
	f := newFixture(t)
	_, _ = f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.targetWord()})

	w, body := f.do(t, http.MethodPost, constants.RouteThemeGuess, gin.H{"guess": "boozing"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, constants.ErrorCodeThemeUnavailable, body["error"])
}

func TestThemeGuessHandler_FullFlow(t *testing.T) {
	f := newFixture(t)
	f.themes.themes[theme.WeekKey(time.Now())] = "drinking alcohol"

	// Not eligible before completing a word this week.
	w, body := f.do(t, http.MethodPost, constants.RouteThemeGuess, gin.H{"guess": "boozing"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, constants.ErrorCodeThemeNotEligible, body["error"])

	_, _ = f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.targetWord()})

	w, body = f.do(t, http.MethodPost, constants.RouteThemeGuess, gin.H{"guess": "boozing"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["isCorrect"])
	assert.Equal(t, constants.ThemeMethodSynonym, body["method"])
	assert.Equal(t, float64(92), body["confidence"])
}

func TestThemeStatusHandler_CachesResult(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodGet, constants.RouteThemeStatus, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["eligible"])
	assert.Equal(t, theme.WeekKey(time.Now()), body["weekKey"])

	// Completing a game does not show up until the cache entry is
	// invalidated or expires.
	_, _ = f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.targetWord()})
	_, body = f.do(t, http.MethodGet, constants.RouteThemeStatus, nil)
	assert.Equal(t, false, body["eligible"])
}

func TestStreakHandler(t *testing.T) {
	f := newFixture(t)
	_, _ = f.do(t, http.MethodPost, constants.RouteGuess, gin.H{"guess": f.targetWord()})

	w, body := f.do(t, http.MethodGet, constants.RouteStreak, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["currentStreak"])
	assert.Equal(t, float64(1), body["bestStreak"])
	assert.Equal(t, true, body["isActive"])
}

func TestHealthzHandler(t *testing.T) {
	f := newFixture(t)
	_, _ = f.do(t, http.MethodGet, constants.RouteGameState, nil)

	w, body := f.do(t, http.MethodGet, constants.RouteHealthz, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "development", body["env"])
	assert.Equal(t, float64(len(testWords())), body["words_loaded"])
	assert.Equal(t, float64(1), body["active_sessions"])
}

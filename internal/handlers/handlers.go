package handlers

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	bonus "definegame/internal/bonus"
	constants "definegame/internal/constants"
	game "definegame/internal/game"
	models "definegame/internal/models"
	session "definegame/internal/session"
	streak "definegame/internal/streak"
	theme "definegame/internal/theme"
	util "definegame/internal/util"
)

// Handlers owns the request-facing wiring: the shared App state plus the
// engines and the theme status cache built once at startup.
type Handlers struct {
	App        *models.App
	Bonus      *bonus.Engine
	Theme      *theme.Service
	ThemeCache *theme.StatusCache
}

func New(app *models.App, themeCacheTTL time.Duration) *Handlers {
	matcher := theme.NewMatcher(app.Synonyms, app.Semantic)
	return &Handlers{
		App:        app,
		Bonus:      bonus.NewEngine(app.Dictionary, app.Bonus),
		Theme:      theme.NewService(matcher, app.Themes, app.Sessions),
		ThemeCache: theme.NewStatusCache(themeCacheTTL),
	}
}

type guessRequest struct {
	Guess string `json:"guess"`
}

type bonusGuessRequest struct {
	Guess         string `json:"guess"`
	AttemptNumber int    `json:"attemptNumber"`
}

// statusForCode maps error-code strings onto HTTP statuses: input
// validation is 400, state violations 409, collaborator failures 503.
func statusForCode(code string) int {
	switch code {
	case constants.ErrorCodeEmptyGuess,
		constants.ErrorCodeInvalidGuess,
		constants.ErrorCodeDuplicateGuess,
		constants.ErrorCodeNotInDictionary,
		constants.ErrorCodeSameWord,
		constants.ErrorCodeInvalidAttempt:
		return http.StatusBadRequest
	case constants.ErrorCodeGameOver,
		constants.ErrorCodeNoMoreGuesses,
		constants.ErrorCodeBonusNotActive,
		constants.ErrorCodeAlreadyGuessed,
		constants.ErrorCodeThemeSolved,
		constants.ErrorCodeThemeNotEligible:
		return http.StatusConflict
	case constants.ErrorCodeTargetNotFound:
		return http.StatusInternalServerError
	case constants.ErrorCodeThemeUnavailable:
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}

func respondError(c *gin.Context, err error) {
	code := err.Error()
	if idx := strings.IndexByte(code, ':'); idx >= 0 {
		code = code[:idx]
	}
	c.JSON(statusForCode(code), gin.H{"error": code})
}

// sessionView is the presentation projection of a session: revealed clue
// content, never the target word while the game is live.
func (h *Handlers) sessionView(gameSession *models.GameSession) gin.H {
	view := gin.H{
		"gameId":            gameSession.GameID,
		"wordId":            gameSession.WordID,
		"guesses":           gameSession.Guesses,
		"revealedClueKeys":  gameSession.RevealedClueKeys,
		"clueStatuses":      gameSession.ClueStatuses,
		"isComplete":        gameSession.IsComplete,
		"isWon":             gameSession.IsWon,
		"guessesUsed":       gameSession.GuessesUsed(),
		"remainingAttempts": gameSession.RemainingAttempts(),
	}
	if entry, ok := h.App.Dictionary.EntryByID(gameSession.WordID); ok {
		view["clues"] = game.RevealedClues(entry, gameSession.RevealedClueKeys)
	}
	if gameSession.IsComplete {
		view["targetWord"] = gameSession.TargetWord
		if gameSession.Score != nil {
			view["score"] = *gameSession.Score
		}
	}
	return view
}

// GuessHandler evaluates one guess for the player's daily session.
func (h *Handlers) GuessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := session.GetOrCreatePlayer(h.App, c)
	gameSession := session.GetGameSession(h.App, ctx, playerID)

	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrorCodeInvalidGuess})
		return
	}

	wasComplete := gameSession.IsComplete
	classification, err := game.Evaluate(gameSession, req.Guess)
	if err != nil {
		respondError(c, err)
		return
	}

	if gameSession.IsComplete && !wasComplete {
		h.applyStreak(c, playerID, gameSession)
	}
	session.SaveGameSession(h.App, ctx, gameSession)

	view := h.sessionView(gameSession)
	view["classification"] = classification
	c.JSON(http.StatusOK, view)
}

// applyStreak folds a just-completed game into the player's streak record.
// Store failures are logged; ApplyGameResult replays idempotently.
func (h *Handlers) applyStreak(c *gin.Context, playerID string, gameSession *models.GameSession) {
	ctx := c.Request.Context()
	record, err := h.App.Streaks.GetStreak(ctx, playerID)
	if err != nil {
		util.LogWarn("Failed to load streak for player %s: %v", playerID, err)
		return
	}
	updated := streak.ApplyGameResult(*record, gameSession.IsWon, time.Now())
	if err := h.App.Streaks.SaveStreak(ctx, &updated); err != nil {
		util.LogWarn("Failed to save streak for player %s: %v", playerID, err)
	}
}

// GameStateHandler returns the player's current session view.
func (h *Handlers) GameStateHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := session.GetOrCreatePlayer(h.App, c)
	gameSession := session.GetGameSession(h.App, ctx, playerID)
	c.JSON(http.StatusOK, h.sessionView(gameSession))
}

// BonusGuessHandler scores one bonus-round guess against today's target.
func (h *Handlers) BonusGuessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := session.GetOrCreatePlayer(h.App, c)
	gameSession := session.GetGameSession(h.App, ctx, playerID)

	var req bonusGuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrorCodeInvalidGuess})
		return
	}

	attempt, err := h.Bonus.ScoreGuess(ctx, gameSession, req.Guess, req.AttemptNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// BonusFinalizeHandler persists the aggregate bonus outcome. Persistence
// failure is logged and never blocks the player.
func (h *Handlers) BonusFinalizeHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := session.GetOrCreatePlayer(h.App, c)
	gameSession := session.GetGameSession(h.App, ctx, playerID)

	result, err := h.Bonus.Finalize(ctx, gameSession.GameID, playerID, gameSession.WordID)
	if err != nil {
		util.LogWarn("Failed to finalize bonus score for game %s: %v", gameSession.GameID, err)
	}
	resp := gin.H{"status": "ok"}
	if result != nil {
		resp["result"] = result
	}
	c.JSON(http.StatusOK, resp)
}

// ThemeGuessHandler evaluates the player's weekly theme guess.
func (h *Handlers) ThemeGuessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := session.GetOrCreatePlayer(h.App, c)

	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Guess) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrorCodeInvalidGuess})
		return
	}

	now := time.Now()
	attempt, err := h.Theme.SubmitGuess(ctx, playerID, theme.WeekKey(now), req.Guess, now)
	if err != nil {
		respondError(c, err)
		return
	}

	h.ThemeCache.Invalidate(playerID)
	c.JSON(http.StatusOK, attempt)
}

// ThemeStatusHandler returns the week's standing, served from the reuse
// cache when fresh.
func (h *Handlers) ThemeStatusHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := session.GetOrCreatePlayer(h.App, c)
	now := time.Now()

	if status, ok := h.ThemeCache.Get(playerID, now); ok {
		c.JSON(http.StatusOK, status)
		return
	}

	status, err := h.Theme.GetStatus(ctx, playerID, theme.WeekKey(now), now)
	if err != nil {
		respondError(c, err)
		return
	}
	h.ThemeCache.Put(playerID, status, now)
	c.JSON(http.StatusOK, status)
}

// StreakHandler returns the player's streak with its display-active flag.
func (h *Handlers) StreakHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := session.GetOrCreatePlayer(h.App, c)

	record, err := h.App.Streaks.GetStreak(ctx, playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currentStreak": record.CurrentStreak,
		"bestStreak":    record.BestStreak,
		"lastWinDate":   record.LastWinDate,
		"isActive":      streak.IsActive(*record, time.Now()),
	})
}

// HealthzHandler reports process vitals.
func (h *Handlers) HealthzHandler(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.App.StartTime)

	h.App.SessionMutex.RLock()
	sessionCount := len(h.App.GameSessions)
	h.App.SessionMutex.RUnlock()

	h.App.LimiterMutex.RLock()
	limiterCount := len(h.App.LimiterMap)
	h.App.LimiterMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[h.App.IsProduction],
		"words_loaded":    h.App.Dictionary.Len(),
		"active_sessions": sessionCount,
		"active_limiters": limiterCount,
		"memory_alloc_mb": m.Alloc / 1024 / 1024,
		"memory_sys_mb":   m.Sys / 1024 / 1024,
		"memory_gc_count": m.NumGC,
		"uptime":          util.FormatUptime(uptime),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

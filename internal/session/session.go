package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	constants "definegame/internal/constants"
	game "definegame/internal/game"
	models "definegame/internal/models"
	util "definegame/internal/util"
)

// GetOrCreatePlayer resolves the player from the session cookie, minting a
// new identity when absent.
func GetOrCreatePlayer(app *models.App, c *gin.Context) string {
	playerID, err := c.Cookie(constants.SessionCookieName)
	if err != nil || len(playerID) < 10 {
		playerID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(constants.SessionCookieName, playerID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		util.LogInfo("Created new player session: %s", playerID)
	}
	return playerID
}

// cacheKey scopes the in-memory cache to one session per player per day.
func cacheKey(playerID string, t time.Time) string {
	return playerID + ":" + t.UTC().Format("2006-01-02")
}

// GetGameSession returns the player's session for today's word, creating one
// on first request.
func GetGameSession(app *models.App, ctx context.Context, playerID string) *models.GameSession {
	key := cacheKey(playerID, time.Now())

	app.SessionMutex.RLock()
	gameSession, exists := app.GameSessions[key]
	app.SessionMutex.RUnlock()
	if exists {
		app.SessionMutex.Lock()
		gameSession.LastAccessTime = time.Now()
		app.SessionMutex.Unlock()
		return gameSession
	}

	gameSession = game.NewSession(app, ctx, playerID)
	SaveGameSession(app, ctx, gameSession)
	return gameSession
}

// SaveGameSession updates the cache and writes through to the store. A
// store failure is logged and does not block play; the store retries on the
// next save using the session's identifiers.
func SaveGameSession(app *models.App, ctx context.Context, gameSession *models.GameSession) {
	key := cacheKey(gameSession.PlayerID, gameSession.StartTime)

	app.SessionMutex.Lock()
	app.GameSessions[key] = gameSession
	gameSession.LastAccessTime = time.Now()
	app.SessionMutex.Unlock()

	if app.Sessions != nil {
		if err := app.Sessions.SaveSession(ctx, gameSession); err != nil {
			util.LogWarn("Failed to persist session %s: %v", gameSession.GameID, err)
		}
	}
}

// CleanupExpiredSessions evicts cache entries idle past the session TTL.
func CleanupExpiredSessions(app *models.App) {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	now := time.Now()
	expiredCount := 0
	for key, gameSession := range app.GameSessions {
		if now.Sub(gameSession.LastAccessTime) > app.SessionTTL {
			delete(app.GameSessions, key)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		util.LogInfo("Cleaned up %d expired sessions", expiredCount)
	}
}

// StartSessionCleanup runs cache eviction on a fixed interval.
func StartSessionCleanup(app *models.App) {
	ticker := time.NewTicker(10 * time.Minute)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			CleanupExpiredSessions(app)
		}
	}()
	util.LogInfo("Started session cleanup goroutine")
}

package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	constants "definegame/internal/constants"
	dictionary "definegame/internal/dictionary"
	models "definegame/internal/models"
)

func sessionTestApp() *models.App {
	return &models.App{
		Dictionary: dictionary.New([]models.WordEntry{
			{ID: "w-001", Word: "movement", Definition: "the act of moving"},
			{ID: "w-002", Word: "zephyr", Definition: "a gentle breeze"},
		}),
		GameSessions: make(map[string]*models.GameSession),
		CookieMaxAge: 24 * time.Hour,
		SessionTTL:   time.Hour,
	}
}

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestGetOrCreatePlayer_MintsIdentity(t *testing.T) {
	app := sessionTestApp()
	c, w := testContext()

	playerID := GetOrCreatePlayer(app, c)
	require.NotEmpty(t, playerID)

	var cookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == constants.SessionCookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, playerID, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestGetOrCreatePlayer_ReusesCookie(t *testing.T) {
	app := sessionTestApp()
	c, w := testContext()
	c.Request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "existing-player-id"})

	playerID := GetOrCreatePlayer(app, c)
	assert.Equal(t, "existing-player-id", playerID)
	assert.Empty(t, w.Result().Cookies(), "no new cookie for a known player")
}

func TestGetOrCreatePlayer_RejectsShortCookie(t *testing.T) {
	app := sessionTestApp()
	c, _ := testContext()
	c.Request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "short"})

	playerID := GetOrCreatePlayer(app, c)
	assert.NotEqual(t, "short", playerID)
}

func TestGetGameSession_CreatesThenCaches(t *testing.T) {
	app := sessionTestApp()
	ctx := context.Background()

	first := GetGameSession(app, ctx, "player-1")
	require.NotNil(t, first)
	assert.Equal(t, "player-1", first.PlayerID)
	assert.Empty(t, first.Guesses)

	second := GetGameSession(app, ctx, "player-1")
	assert.Same(t, first, second, "same player and day returns the cached session")

	other := GetGameSession(app, ctx, "player-2")
	assert.NotSame(t, first, other)
}

func TestSaveGameSession_WritesThrough(t *testing.T) {
	app := sessionTestApp()
	saved := make(map[string]*models.GameSession)
	app.Sessions = &recordingSessionStore{saved: saved}
	ctx := context.Background()

	gameSession := GetGameSession(app, ctx, "player-1")
	require.Contains(t, saved, gameSession.GameID)

	gameSession.Guesses = append(gameSession.Guesses, "zephyr")
	SaveGameSession(app, ctx, gameSession)
	assert.Equal(t, []string{"zephyr"}, saved[gameSession.GameID].Guesses)
}

type recordingSessionStore struct {
	saved map[string]*models.GameSession
}

func (s *recordingSessionStore) SaveSession(ctx context.Context, session *models.GameSession) error {
	s.saved[session.GameID] = session
	return nil
}

func (s *recordingSessionStore) GetSession(ctx context.Context, gameID string) (*models.GameSession, error) {
	return s.saved[gameID], nil
}

func (s *recordingSessionStore) CountCompletedInWeek(ctx context.Context, playerID, weekKey string) (int, error) {
	return 0, nil
}

func TestCleanupExpiredSessions(t *testing.T) {
	app := sessionTestApp()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		GetGameSession(app, ctx, fmt.Sprintf("player-%d", i))
	}
	require.Len(t, app.GameSessions, 3)

	for key, gameSession := range app.GameSessions {
		if key != "player-0:"+time.Now().UTC().Format("2006-01-02") {
			gameSession.LastAccessTime = time.Now().Add(-2 * time.Hour)
		}
	}

	CleanupExpiredSessions(app)
	assert.Len(t, app.GameSessions, 1)
}

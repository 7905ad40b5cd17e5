package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	ginGzip "github.com/gin-contrib/gzip"

	"github.com/gin-gonic/gin"

	constants "definegame/internal/constants"
	dictionary "definegame/internal/dictionary"
	handlers "definegame/internal/handlers"
	models "definegame/internal/models"
	semantic "definegame/internal/semantic"
	session "definegame/internal/session"
	store "definegame/internal/store"
	theme "definegame/internal/theme"
	util "definegame/internal/util"
)

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	util.SetupLogger(isProduction)
	util.LogInfo("Starting DEFINE in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	dict, err := dictionary.Load(util.GetEnvString("DICTIONARY_PATH", "data/dictionary.json"))
	if err != nil {
		util.LogFatal("Failed to load dictionary: %v", err)
	}

	synonyms, err := theme.LoadTable(util.GetEnvString("SYNONYMS_PATH", "data/synonyms.json"))
	if err != nil {
		util.LogFatal("Failed to load synonym table: %v", err)
	}

	db, err := store.Open(store.Config{
		Type: util.GetEnvString("DB_TYPE", "sqlite"),
		Path: util.GetEnvString("DB_PATH", "data/define.db"),
		URL:  os.Getenv("DATABASE_URL"),
	})
	if err != nil {
		util.LogFatal("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		util.LogFatal("Failed to run migrations: %v", err)
	}

	themes := store.NewThemeRepository(db)
	seedWeeklyTheme(themes)

	app := &models.App{
		Dictionary:     dict,
		Synonyms:       synonyms,
		Semantic:       semantic.NewClient(util.GetEnvString("SEMANTIC_API_URL", "http://localhost:8090/similarity")),
		Sessions:       store.NewSessionRepository(db),
		Bonus:          store.NewBonusRepository(db),
		Themes:         themes,
		Streaks:        store.NewStreakRepository(db),
		GameSessions:   make(map[string]*models.GameSession),
		LimiterMap:     make(map[string]*models.RateLimiterWithTime),
		IsProduction:   isProduction,
		StartTime:      time.Now(),
		CookieMaxAge:   util.GetEnvDuration("COOKIE_MAX_AGE", 2*time.Hour),
		RateLimitRPS:   util.GetEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: util.GetEnvInt("RATE_LIMIT_BURST", 10),
		RateLimiterTTL: util.GetEnvDuration("RATE_LIMITER_TTL", 1*time.Hour),
		SessionTTL:     util.GetEnvDuration("SESSION_TTL", 3*time.Hour),
	}

	h := handlers.New(app, util.GetEnvDuration("THEME_STATUS_TTL", 2*time.Minute))

	router := gin.Default()

	router.Use(handlers.RequestIDMiddleware())
	router.Use(handlers.SecurityHeadersMiddleware())
	router.Use(handlers.CSRFMiddleware(app))
	router.Use(handlers.ValidateCSRFMiddleware(app))
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))
	router.Use(noStoreCacheHeaders())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		util.LogWarn("Failed to set trusted proxies: %v", err)
	}

	rateLimited := handlers.RateLimitMiddleware(app)
	router.POST(constants.RouteGuess, rateLimited, h.GuessHandler)
	router.GET(constants.RouteGameState, h.GameStateHandler)
	router.POST(constants.RouteBonusGuess, rateLimited, h.BonusGuessHandler)
	router.POST(constants.RouteBonusFinalize, rateLimited, h.BonusFinalizeHandler)
	router.POST(constants.RouteThemeGuess, rateLimited, h.ThemeGuessHandler)
	router.GET(constants.RouteThemeStatus, h.ThemeStatusHandler)
	router.GET(constants.RouteStreak, h.StreakHandler)
	router.GET(constants.RouteHealthz, h.HealthzHandler)

	startCleanupRoutines(app)

	startServer(router)
}

// seedWeeklyTheme lets deployments set the current week's theme from env.
func seedWeeklyTheme(themes *store.ThemeRepository) {
	weekly := os.Getenv("THEME_OF_WEEK")
	if strings.TrimSpace(weekly) == "" {
		return
	}
	weekKey := theme.WeekKey(time.Now())
	if err := themes.SetWeeklyTheme(context.Background(), weekKey, weekly); err != nil {
		util.LogWarn("Failed to seed weekly theme: %v", err)
		return
	}
	util.LogInfo("Seeded theme for week %s", weekKey)
}

func noStoreCacheHeaders() gin.HandlerFunc {
	return cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})
}

func startCleanupRoutines(app *models.App) {
	session.StartSessionCleanup(app)

	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			handlers.CleanupStaleRateLimiters(app)
		}
	}()

	util.LogInfo("Started cleanup routines for sessions and rate limiters")
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		util.LogInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			util.LogWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	util.LogInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		util.LogFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	util.LogInfo("Server shutdown complete")
}

package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/biaslens/src/config"
	"github.com/username/biaslens/src/database"
	"github.com/username/biaslens/src/handlers"
	"github.com/username/biaslens/src/logger"
	"github.com/username/biaslens/src/model"
	"github.com/username/biaslens/src/processors"
	"github.com/username/biaslens/src/security"
	"github.com/username/biaslens/src/services"
	"golang.org/x/time/rate"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("BiasLens backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath, config.Cfg.MigrationsPath)

	// Expired sessions accumulate otherwise; the refresh flow only deletes
	// sessions it touches.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := model.DeleteExpiredSessions(database.DB); err != nil {
				logger.L.Warn("Expired session cleanup failed", "error", err)
			}
		}
	}()

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	authService := security.NewAuthService(config.Cfg.JWTSecret, config.Cfg.AccessTokenExpiry)

	analysisService := services.NewAnalysisService(processors.DefaultDetectorConfig(), reportCache)
	coachService := services.NewCoachService(
		analysisService,
		config.Cfg.CoachGatewayURL,
		config.Cfg.CoachAPIKey,
		config.Cfg.CoachModel,
	)

	userHandler := handlers.NewUserHandler(authService, analysisService, reportCache)
	uploadHandler := handlers.NewUploadHandler(analysisService)
	tradeHandler := handlers.NewTradeHandler(analysisService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	coachHandler := handlers.NewCoachHandler(coachService)
	tagHandler := handlers.NewTagHandler()

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "BiasLens Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Get("/auth/csrf", handlers.GetCSRFToken)
		})

		// Auth routes (CSRF protected)
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware())
			r.Post("/auth/login", userHandler.LoginUserHandler)
			r.Post("/auth/register", userHandler.RegisterUserHandler)
			r.Post("/auth/refresh", userHandler.RefreshTokenHandler)
			r.With(userHandler.AuthMiddleware).Post("/auth/logout", userHandler.LogoutUserHandler)
		})

		// Protected routes (auth + CSRF)
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware())
			r.Use(userHandler.AuthMiddleware)

			r.Get("/auth/me", userHandler.HandleGetMe)

			r.Post("/upload", uploadHandler.HandleUpload)

			r.Get("/trades", tradeHandler.HandleListTrades)
			r.Post("/trades/manual", tradeHandler.HandleAddTrades)
			r.Post("/trades/bulk", tradeHandler.HandleAddTrades)
			r.Delete("/trades/all", tradeHandler.HandleDeleteTrades)

			r.Get("/analysis/findings", analysisHandler.HandleGetFindings)
			r.Get("/analysis/risk-profile", analysisHandler.HandleGetRiskProfile)
			r.Get("/analysis/insights", analysisHandler.HandleGetInsights)
			r.Post("/analysis/rerun", analysisHandler.HandleRerunAnalysis)

			r.Get("/emotional-tags", tagHandler.HandleListEmotionalTags)
			r.Post("/emotional-tags", tagHandler.HandleCreateEmotionalTag)

			r.Post("/coach/message", coachHandler.HandleSendMessage)
			r.Get("/coach/history", coachHandler.HandleGetHistory)
			r.Delete("/coach/history", coachHandler.HandleClearHistory)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
		}
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}

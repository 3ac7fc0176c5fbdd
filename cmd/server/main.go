package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sportsclub/backend/internal/config"
	"github.com/sportsclub/backend/internal/cooldown"
	"github.com/sportsclub/backend/internal/database"
	"github.com/sportsclub/backend/internal/mailer"
	postgresrepo "github.com/sportsclub/backend/internal/repository/postgres"
	"github.com/sportsclub/backend/internal/service"
	"github.com/sportsclub/backend/internal/storage"
	"github.com/sportsclub/backend/internal/transport/http/handlers"
	"github.com/sportsclub/backend/internal/transport/http/middleware"
	"github.com/sportsclub/backend/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Database
	if err := database.Migrate(context.Background(), cfg); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Resend cooldown store: Redis when configured, in-memory otherwise.
	var cooldowns cooldown.Store
	if cfg.RedisAddr != "" {
		cooldowns = cooldown.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		cooldowns = cooldown.NewMemoryStore()
	}

	// Media storage
	var store storage.Storage
	var localStore *storage.Local
	if cfg.StorageBackend == "s3" {
		store, err = storage.NewS3(context.Background(), cfg)
		if err != nil {
			logger.Fatal("s3 storage init failed", zap.Error(err))
		}
	} else {
		localStore, err = storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			logger.Fatal("local storage init failed", zap.Error(err))
		}
		store = localStore
	}

	// Notifier: SMTP with 3 attempts and exponential backoff.
	verificationMailer := mailer.NewRetrying(mailer.NewSMTP(cfg), 3, logger)

	// Feed hub
	hub := ws.NewHub(logger)
	go hub.Run()
	feed := ws.NewFeedNotifier(hub, logger)

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	postRepo := postgresrepo.NewPostRepo(pool)
	eventRepo := postgresrepo.NewEventRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, verificationMailer, cooldowns, cfg.JWTSecret, logger)
	postService := service.NewPostService(postRepo, feed)
	eventService := service.NewEventService(eventRepo, feed)
	profileService := service.NewProfileService(userRepo, postRepo, eventRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	postHandler := handlers.NewPostHandler(postService, store, logger)
	eventHandler := handlers.NewEventHandler(eventService, store, logger)
	profileHandler := handlers.NewProfileHandler(profileService, store, logger)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/signup", authHandler.SignUp)
	mux.HandleFunc("POST /api/v1/auth/signin", authHandler.SignIn)
	mux.HandleFunc("POST /api/v1/auth/verify-email", authHandler.VerifyEmail)
	mux.HandleFunc("POST /api/v1/auth/resend-verification", authHandler.ResendOTP)

	// Posts
	mux.Handle("POST /api/v1/posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.HandleFunc("GET /api/v1/posts", postHandler.ListAll)
	mux.HandleFunc("GET /api/v1/posts/user/{userId}", postHandler.ListByUser)
	mux.Handle("PUT /api/v1/posts/{id}/like", auth(http.HandlerFunc(postHandler.Like)))
	mux.Handle("PUT /api/v1/posts/{id}/unlike", auth(http.HandlerFunc(postHandler.Unlike)))

	// Events
	mux.Handle("POST /api/v1/events", auth(http.HandlerFunc(eventHandler.Create)))
	mux.HandleFunc("GET /api/v1/events", eventHandler.ListAll)
	mux.HandleFunc("GET /api/v1/events/user/{userId}", eventHandler.ListByUser)
	mux.Handle("POST /api/v1/events/{id}/view", auth(http.HandlerFunc(eventHandler.TrackView)))

	// Profile
	mux.Handle("GET /api/v1/profile/me", auth(http.HandlerFunc(profileHandler.Me)))
	mux.Handle("PUT /api/v1/profile", auth(http.HandlerFunc(profileHandler.Update)))
	mux.Handle("POST /api/v1/profile/picture", auth(http.HandlerFunc(profileHandler.UploadPicture)))
	mux.HandleFunc("GET /api/v1/profile/{userId}/stats", profileHandler.Stats)

	// Live feed
	mux.HandleFunc("GET /ws/feed", ws.ServeWS(hub, logger))

	// Locally stored uploads are served straight from disk.
	if localStore != nil {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(localStore.Dir()))))
	}

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("starting server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, middleware.CORS(cfg.AllowedOrigins)(mux)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

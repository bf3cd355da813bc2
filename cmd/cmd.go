package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayfarer-backend/internal/cache"
	"wayfarer-backend/internal/config"
	"wayfarer-backend/internal/handlers"
	"wayfarer-backend/internal/middleware"
	"wayfarer-backend/internal/repository"
	"wayfarer-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Unread-count cache; disabled when no redis address is configured
	unread := cache.NewUnreadCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer unread.Close()
	if unread != nil {
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Unread cache enabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db)
	requestRepo := repository.NewJoinRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Initialize services
	wsHub := services.NewWSHub()
	pusher, err := services.NewAPNSPusher(cfg.APNs, userRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create APNs client")
	}
	if pusher != nil {
		log.Info().Str("topic", cfg.APNs.Topic).Msg("APNs push enabled")
	}

	userService := services.NewUserService(userRepo)
	tripService := services.NewTripService(tripRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, unread, wsHub, pusher)
	requestService := services.NewJoinRequestService(tripRepo, requestRepo, notificationService)
	chatService := services.NewChatService(tripRepo, chatRepo, wsHub)
	commentService := services.NewCommentService(commentRepo, tripRepo)
	expenseService := services.NewExpenseService(expenseRepo, tripRepo)
	reviewService := services.NewReviewService(reviewRepo, tripRepo)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	tripHandler := handlers.NewTripHandler(tripService)
	requestHandler := handlers.NewJoinRequestHandler(requestService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	chatHandler := handlers.NewChatHandler(chatService)
	commentHandler := handlers.NewCommentHandler(commentService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, cfg.Auth.TokenSecret)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Routes that identify the caller from the request body or are
		// public reads
		r.Post("/users", userHandler.Create)
		r.Get("/users/{id}", userHandler.Get)

		r.Get("/trips", tripHandler.List)
		r.Post("/trips", tripHandler.Create)
		r.Get("/trips/search", tripHandler.Search)
		r.Get("/trips/user/{uid}", tripHandler.ListByUser)
		r.Get("/trips/{id}", tripHandler.Get)
		r.Post("/trips/{id}/join", requestHandler.JoinTrip)
		r.Get("/trips/{id}/request-status", requestHandler.Status)
		r.Post("/trips/{id}/leave", requestHandler.Leave)
		r.Get("/trips/{id}/comments", commentHandler.List)
		r.Post("/trips/{id}/comments", commentHandler.Add)
		r.Get("/trips/{id}/expenses", expenseHandler.List)
		r.Post("/trips/{id}/expenses", expenseHandler.Add)
		r.Put("/trips/{id}/expenses/{expenseId}", expenseHandler.Update)
		r.Delete("/trips/{id}/expenses/{expenseId}", expenseHandler.Delete)

		r.Post("/reviews", reviewHandler.Add)
		r.Get("/reviews/user/{userId}", reviewHandler.ForUser)

		// Routes that require the x-user-id identity header
		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity)
			r.Put("/users/{id}", userHandler.Update)
			r.Put("/trips/{id}", tripHandler.Update)
			r.Delete("/trips/{id}", tripHandler.Delete)
			r.Delete("/trips/{id}/participants/{participantId}", requestHandler.RemoveParticipant)
			r.Get("/requests/{id}", requestHandler.Details)
			r.Put("/requests/{id}", requestHandler.Decide)
			r.Get("/notifications", notificationHandler.List)
			r.Put("/notifications", notificationHandler.MarkRead)
			r.Get("/chats", chatHandler.Inbox)
			r.Get("/trips/{id}/chat", chatHandler.List)
			r.Post("/trips/{id}/chat", chatHandler.Send)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, x-user-id")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

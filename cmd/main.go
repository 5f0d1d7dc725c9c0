package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-user-auth/internal/config"
	"github.com/sbilibin2017/gw-user-auth/internal/handlers"
	"github.com/sbilibin2017/gw-user-auth/internal/jwt"
	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/repositories"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
	"github.com/sbilibin2017/gw-user-auth/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-user-auth API
// @version 1.0.0
// @description Microservice for user accounts: registration, authentication, email verification, password reset, profiles and followers
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// run initializes the logger, database, Redis, and Kafka, wires the
// repositories, services, and handlers, and serves HTTP with graceful
// shutdown.
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL
	dsn := cfg.PostgresDSN()
	logger.Log.Infof("Connecting to PostgreSQL: %s", dsn)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	db.SetMaxIdleConns(cfg.PostgresMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Apply migrations
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		logger.Log.Fatal("goose dialect error:", err)
	}
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		logger.Log.Fatal("migrations failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka writer for outgoing email jobs
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBrokers...),
		Topic:    cfg.KafkaEmailTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer kafkaWriter.Close()

	// Initialize token codec
	tokenCodec := jwt.New(cfg)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	refreshTokenReadRepo := repositories.NewRefreshTokenReadRepository(db)
	refreshTokenWriteRepo := repositories.NewRefreshTokenWriteRepository(db)
	followerReadRepo := repositories.NewFollowerReadRepository(db)
	followerWriteRepo := repositories.NewFollowerWriteRepository(db)
	profileCacheRepo := repositories.NewProfileCacheRepository(rdb, cfg.ProfileCacheTTL)

	// Initialize services
	emailNotifier := services.NewKafkaEmailNotifier(kafkaWriter)
	authService := services.NewAuthService(userReadRepo, userWriteRepo, refreshTokenWriteRepo, tokenCodec, emailNotifier)
	userService := services.NewUserService(userReadRepo, userWriteRepo, profileCacheRepo, followerReadRepo, followerWriteRepo)

	// Token validators
	accessToken := middlewares.AccessTokenValidator(tokenCodec)
	refreshToken := middlewares.RefreshTokenValidator(tokenCodec, refreshTokenReadRepo)
	emailVerifyToken := middlewares.EmailVerifyTokenValidator(tokenCodec)
	forgotPasswordToken := middlewares.ForgotPasswordTokenValidator(tokenCodec, userReadRepo)
	verifiedUser := middlewares.VerifiedUserValidator()

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Route("/users", func(r chi.Router) {
		r.With(middlewares.RegisterValidator(userReadRepo)).
			Post("/register", handlers.NewRegisterHandler(authService))
		r.With(middlewares.LoginValidator(userReadRepo)).
			Post("/login", handlers.NewLoginHandler(authService))
		r.With(accessToken, refreshToken).
			Post("/logout", handlers.NewLogoutHandler(authService))

		r.With(emailVerifyToken).
			Post("/verify-email", handlers.NewVerifyEmailHandler(authService))
		r.With(accessToken).
			Post("/resend-verify-email", handlers.NewResendVerifyEmailHandler(authService))

		r.With(middlewares.ForgotPasswordValidator(userReadRepo)).
			Post("/forgot-password", handlers.NewForgotPasswordHandler(authService))
		r.With(forgotPasswordToken).
			Post("/verify-forgot-password", handlers.NewVerifyForgotPasswordHandler())
		r.With(middlewares.ResetPasswordValidator(tokenCodec, userReadRepo)).
			Post("/reset-password", handlers.NewResetPasswordHandler(authService))

		r.With(accessToken).
			Get("/me", handlers.NewGetMeHandler(userService))
		r.With(accessToken, verifiedUser, middlewares.UpdateMeValidator(userReadRepo)).
			Patch("/me", handlers.NewUpdateMeHandler(userService))

		r.With(accessToken, verifiedUser, middlewares.FollowValidator(userReadRepo)).
			Post("/follow", handlers.NewFollowHandler(userService))
		r.With(accessToken, verifiedUser, middlewares.UnfollowValidator(userReadRepo)).
			Delete("/follow/{user_id}", handlers.NewUnfollowHandler(userService))

		r.Get("/{username}", handlers.NewGetProfileHandler(userService))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/movielog/movielog/internal/facades"
	"github.com/movielog/movielog/internal/handlers"
	"github.com/movielog/movielog/internal/jwt"
	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/middlewares"
	"github.com/movielog/movielog/internal/repositories"
	"github.com/movielog/movielog/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title movielog API
// @version 1.0.0
// @description Movie review and watchlist tracking service
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		lookupCacheExpSecond,
		kafkaBroker, kafkaTopic,
		omdbBaseURL, omdbAPIKey, logLevel,
		jwtSecret, jwtExpMinute,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		lookupCacheExpSecond,
		kafkaBroker, kafkaTopic,
		omdbBaseURL, omdbAPIKey,
		logLevel,
		jwtSecret, jwtExpMinute,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s, Commit: %s, Build: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// all application, database, Redis, Kafka, catalog lookup, logging, and
// JWT configuration.
func parseConfig(path string) (
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort int, redisDB int, redisPassword string,
	lookupCacheExpSecond int,
	kafkaBroker, kafkaTopic string,
	omdbBaseURL, omdbAPIKey, logLevel string,
	jwtSecretKey string, jwtExpMinute int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "movielog")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if lookupCacheExpSecond, err = strconv.Atoi(getEnv("MOVIE_LOOKUP_CACHE_EXP_SECOND", "3600")); err != nil {
		return
	}

	// Kafka config
	kafkaBroker = getEnv("KAFKA_BROKER", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "movielog-activity")

	// External movie lookup config
	omdbBaseURL = getEnv("OMDB_BASE_URL", "http://www.omdbapi.com/")
	omdbAPIKey = getEnv("OMDB_API_KEY", "")

	// JWT config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpMinute, err = strconv.Atoi(getEnv("JWT_EXP_MINUTE", "500")); err != nil {
		return
	}

	return
}

// schema is created idempotently at startup. Uniqueness constraints back
// the check-then-insert paths so concurrent duplicates surface as
// conflicts.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id BIGSERIAL PRIMARY KEY,
	username VARCHAR(50) NOT NULL UNIQUE,
	email VARCHAR(100) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	joined_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS movies (
	movie_id BIGSERIAL PRIMARY KEY,
	imdb_id VARCHAR(20) NOT NULL UNIQUE,
	title TEXT NOT NULL,
	year VARCHAR(20) NOT NULL DEFAULT '',
	genre TEXT NOT NULL DEFAULT '',
	poster TEXT NOT NULL DEFAULT '',
	plot TEXT NOT NULL DEFAULT '',
	imdb_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
	type VARCHAR(20) NOT NULL DEFAULT '',
	awards TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	runtime VARCHAR(20) NOT NULL DEFAULT '',
	released VARCHAR(20) NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS movies_title_idx ON movies (title);

CREATE TABLE IF NOT EXISTS reviews (
	review_id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
	movie_id BIGINT NOT NULL REFERENCES movies (movie_id),
	review TEXT NOT NULL,
	likes INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, movie_id)
);

CREATE TABLE IF NOT EXISTS watchlist (
	entry_id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
	movie_id BIGINT NOT NULL REFERENCES movies (movie_id),
	status VARCHAR(50) NOT NULL DEFAULT 'unwatched',
	note TEXT,
	rating DOUBLE PRECISION,
	UNIQUE (movie_id)
);
`

// run initializes the logger, database, Redis, Kafka, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	lookupCacheExpSecond int,
	kafkaBroker, kafkaTopic string,
	omdbBaseURL, omdbAPIKey, logLevel string,
	jwtSecretKey string, jwtExpMinute int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL: %s:%d/%s", pgHost, pgPort, pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Errorw("PostgreSQL connection error", "error", err)
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Errorw("PostgreSQL ping failed", "error", err)
		return err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Log.Errorw("failed to bootstrap schema", "error", err)
		return err
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Errorw("Redis connection error", "error", err)
		return err
	}
	defer rdb.Close()

	// Kafka writer for activity events; optional
	var kafkaWriter services.KafkaWriter
	if kafkaBroker != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(kafkaBroker),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
	}

	// Initialize JWT service
	jwtSvc := jwt.New(
		jwt.WithSecretKey(jwtSecretKey),
		jwt.WithExpiration(time.Duration(jwtExpMinute)*time.Minute),
	)

	// Initialize repositories
	txGetter := middlewares.GetTxFromContext
	userReadRepo := repositories.NewUserReadRepository(db, txGetter)
	userWriteRepo := repositories.NewUserWriteRepository(db, txGetter)
	movieReadRepo := repositories.NewMovieReadRepository(db, txGetter)
	movieWriteRepo := repositories.NewMovieWriteRepository(db, txGetter)
	reviewReadRepo := repositories.NewReviewReadRepository(db, txGetter)
	reviewWriteRepo := repositories.NewReviewWriteRepository(db, txGetter)
	watchlistReadRepo := repositories.NewWatchlistReadRepository(db, txGetter)
	watchlistWriteRepo := repositories.NewWatchlistWriteRepository(db, txGetter)
	lookupCache := repositories.NewMovieLookupCacheRepository(rdb, time.Duration(lookupCacheExpSecond)*time.Second)

	// External movie lookup
	lookupFacade := facades.NewMovieLookupFacade(&http.Client{Timeout: 10 * time.Second}, omdbBaseURL, omdbAPIKey)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, jwtSvc)
	userService := services.NewUserService(userReadRepo, userWriteRepo)
	catalogService := services.NewCatalogService(movieReadRepo, movieWriteRepo, lookupFacade, lookupCache)
	reviewService := services.NewReviewService(userReadRepo, movieReadRepo, catalogService, reviewReadRepo, reviewWriteRepo, kafkaWriter)
	watchlistService := services.NewWatchlistService(userReadRepo, movieReadRepo, catalogService, watchlistReadRepo, watchlistWriteRepo, kafkaWriter)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(middlewares.TxMiddleware(db))

	// Public routes
	r.Post("/login", handlers.NewLoginHandler(authService))
	r.Post("/user", handlers.NewRegisterHandler(authService))
	r.Get("/user", handlers.NewListUsersHandler(userService))
	r.Delete("/review", handlers.NewDeleteReviewHandler(reviewService))
	r.Delete("/watchlist", handlers.NewDeleteWatchlistHandler(watchlistService))

	// Protected routes with JWT middleware
	authMiddleware := middlewares.AuthMiddleware(jwtSvc)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/user/profile", handlers.NewGetProfileHandler(userService, jwtSvc))
		r.Patch("/user/profile", handlers.NewUpdateProfileHandler(userService, jwtSvc))
		r.Post("/review", handlers.NewCreateReviewHandler(reviewService, jwtSvc))
		r.Patch("/review", handlers.NewUpdateReviewHandler(reviewService, jwtSvc))
		r.Get("/review", handlers.NewListReviewsHandler(reviewService, jwtSvc))
		r.Get("/watchlist", handlers.NewListWatchlistHandler(watchlistService, jwtSvc))
		r.Post("/watchlist", handlers.NewCreateWatchlistHandler(watchlistService, jwtSvc))
		r.Patch("/watchlist", handlers.NewUpdateWatchlistHandler(watchlistService, jwtSvc))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
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

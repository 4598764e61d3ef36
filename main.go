package main

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/next-chapter/api/api"
	"github.com/next-chapter/api/books"
	"github.com/next-chapter/api/datastore"
	"github.com/next-chapter/api/friends"
	"github.com/next-chapter/api/migrations"
	"github.com/next-chapter/api/scheduler"
	"github.com/next-chapter/api/streak"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := api.Config{
		HTTPPort:           getEnv("HTTP_PORT", ":8080"),
		DatabaseType:       getEnv("DB_TYPE", "postgres"),
		DatabaseUser:       getEnv("DB_USER", "postgres"),
		DatabasePassword:   getEnv("DB_PASSWORD", ""),
		DatabaseHost:       getEnv("DB_HOST", "localhost"),
		DatabaseName:       getEnv("DB_NAME", "nextchapter"),
		SSLMode:            getEnv("SSL_MODE", "disable"),
		JwtSecret:          getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JwtAccessDuration:  getEnvInt("JWT_ACCESS_DURATION", 900),     // 15 minutes
		JwtRefreshDuration: getEnvInt("JWT_REFRESH_DURATION", 604800), // 7 days
		JwtDomain:          getEnv("JWT_DOMAIN", ""),
		AllowedOrigins:     getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		DevMode:            getEnvBool("DEV_MODE", true),

		GoogleBooksBaseURL: getEnv("GOOGLE_BOOKS_BASE_URL", "https://www.googleapis.com/books/v1"),
		GoogleBooksAPIKey:  getEnv("GOOGLE_BOOKS_API_KEY", ""),
		HardcoverBaseURL:   getEnv("HARDCOVER_BASE_URL", "https://api.hardcover.app/v1/graphql"),
		HardcoverToken:     getEnv("HARDCOVER_TOKEN", ""),
		BookProvider:       getEnv("BOOK_PROVIDER", "google"),
		FeaturedSubject:    getEnv("FEATURED_SUBJECT", "fiction"),

		StreakMonthlyFreezes: getEnvInt("STREAK_MONTHLY_FREEZES", 3),
		StreakFreezeGapDays:  getEnvInt("STREAK_FREEZE_GAP_DAYS", 1),

		SearchCacheTTLSeconds: getEnvInt("SEARCH_CACHE_TTL_SECONDS", 300),
		SearchCacheMaxEntries: getEnvInt("SEARCH_CACHE_MAX_ENTRIES", 256),
	}

	setupLogging(config.DevMode)

	connStr := datastore.BuildDBConnStr(
		config.DatabasePassword,
		config.DatabaseUser,
		config.DatabaseHost,
		config.DatabaseName,
		config.SSLMode,
	)

	dbConn, dbErr := datastore.NewDB(config.DatabaseType, connStr)
	if dbErr != nil {
		log.Fatal().Err(dbErr).Msg("failed to connect to database")
	}
	defer dbConn.Close()

	log.Info().Msg("running database migrations")
	if err := migrations.RunMigrations(dbConn); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	userRepo, userRepoErr := datastore.NewUserDatabase(dbConn)
	if userRepoErr != nil {
		log.Fatal().Err(userRepoErr).Msg("failed to create user repository")
	}

	shelfRepo, shelfRepoErr := datastore.NewShelfDatabase(dbConn)
	if shelfRepoErr != nil {
		log.Fatal().Err(shelfRepoErr).Msg("failed to create shelf repository")
	}

	reviewRepo, reviewRepoErr := datastore.NewReviewDatabase(dbConn)
	if reviewRepoErr != nil {
		log.Fatal().Err(reviewRepoErr).Msg("failed to create review repository")
	}

	journalRepo, journalRepoErr := datastore.NewJournalDatabase(dbConn)
	if journalRepoErr != nil {
		log.Fatal().Err(journalRepoErr).Msg("failed to create journal repository")
	}

	listRepo, listRepoErr := datastore.NewListDatabase(dbConn)
	if listRepoErr != nil {
		log.Fatal().Err(listRepoErr).Msg("failed to create list repository")
	}

	badgeRepo, badgeRepoErr := datastore.NewBadgeDatabase(dbConn)
	if badgeRepoErr != nil {
		log.Fatal().Err(badgeRepoErr).Msg("failed to create badge repository")
	}

	featuredRepo, featuredRepoErr := datastore.NewFeaturedDatabase(dbConn)
	if featuredRepoErr != nil {
		log.Fatal().Err(featuredRepoErr).Msg("failed to create featured repository")
	}

	streakRepo, streakRepoErr := datastore.NewStreakDatabase(dbConn)
	if streakRepoErr != nil {
		log.Fatal().Err(streakRepoErr).Msg("failed to create streak repository")
	}

	friendRepo, friendRepoErr := datastore.NewFriendDatabase(dbConn)
	if friendRepoErr != nil {
		log.Fatal().Err(friendRepoErr).Msg("failed to create friend repository")
	}

	tracker := streak.NewTracker(streakRepo, streak.Config{
		MonthlyFreezes: config.StreakMonthlyFreezes,
		FreezeGapDays:  config.StreakFreezeGapDays,
	})

	graph := friends.NewGraph(friendRepo)

	var bookClient books.Client
	switch config.BookProvider {
	case "hardcover":
		bookClient = books.NewHardcoverClient(config.HardcoverBaseURL, config.HardcoverToken)
	default:
		bookClient = books.NewGoogleClient(config.GoogleBooksBaseURL, config.GoogleBooksAPIKey)
	}

	searchCache := books.NewSearchCache(
		time.Duration(config.SearchCacheTTLSeconds)*time.Second,
		config.SearchCacheMaxEntries,
	)

	app := &api.Application{
		Config:       config,
		UserRepo:     userRepo,
		ShelfRepo:    shelfRepo,
		ReviewRepo:   reviewRepo,
		JournalRepo:  journalRepo,
		ListRepo:     listRepo,
		BadgeRepo:    badgeRepo,
		FeaturedRepo: featuredRepo,
		FriendRepo:   friendRepo,
		Streaks:      tracker,
		Friends:      graph,
		Books:        bookClient,
		SearchCache:  searchCache,
	}

	featuredScheduler := scheduler.NewScheduler(featuredRepo, bookClient, config.FeaturedSubject)
	featuredScheduler.Start()

	mux := http.NewServeMux()

	log.Info().Str("port", config.HTTPPort).Msg("Next Chapter API starting")
	if err := app.Serve(mux); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func setupLogging(devMode bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if devMode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

func getEnvSlice(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return strings.Split(value, ",")
}

package api

import (
	"github.com/next-chapter/api/books"
	"github.com/next-chapter/api/datastore"
	"github.com/next-chapter/api/friends"
	"github.com/next-chapter/api/streak"
)

type Config struct {
	HTTPPort           string
	DatabaseType       string
	DatabaseUser       string
	DatabasePassword   string
	DatabaseHost       string
	DatabaseName       string
	SSLMode            string
	JwtSecret          string
	JwtAccessDuration  int // seconds
	JwtRefreshDuration int // seconds
	JwtDomain          string
	AllowedOrigins     []string
	DevMode            bool

	GoogleBooksBaseURL string
	GoogleBooksAPIKey  string
	HardcoverBaseURL   string
	HardcoverToken     string
	BookProvider       string // "google" or "hardcover"
	FeaturedSubject    string

	StreakMonthlyFreezes int
	StreakFreezeGapDays  int

	SearchCacheTTLSeconds int
	SearchCacheMaxEntries int
}

type Application struct {
	Config       Config
	UserRepo     datastore.UserRepository
	ShelfRepo    datastore.ShelfRepository
	ReviewRepo   datastore.ReviewRepository
	JournalRepo  datastore.JournalRepository
	ListRepo     datastore.ListRepository
	BadgeRepo    datastore.BadgeRepository
	FeaturedRepo datastore.FeaturedRepository
	FriendRepo   datastore.FriendRepository

	Streaks *streak.Tracker
	Friends *friends.Graph

	Books       books.Client
	SearchCache *books.SearchCache
}

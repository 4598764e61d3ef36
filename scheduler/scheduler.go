package scheduler

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/next-chapter/api/books"
	"github.com/next-chapter/api/datastore"
	"github.com/next-chapter/api/models"
)

const featuredShelfSize = 12

type Scheduler struct {
	FeaturedRepo datastore.FeaturedRepository
	Books        books.Client
	Subject      string
	ticker       *time.Ticker
	done         chan bool
}

func NewScheduler(repo datastore.FeaturedRepository, client books.Client, subject string) *Scheduler {
	return &Scheduler{
		FeaturedRepo: repo,
		Books:        client,
		Subject:      subject,
		done:         make(chan bool),
	}
}

// Start begins the scheduler to run at midnight every day
func (s *Scheduler) Start() {
	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	durationUntilMidnight := nextMidnight.Sub(now)

	log.Info().
		Dur("until_next_run", durationUntilMidnight).
		Msg("scheduler started, next featured refresh at midnight")

	// Fill today's shelf right away in case the process came up mid-day
	if err := s.RefreshFeatured(); err != nil {
		log.Error().Err(err).Msg("initial featured refresh failed")
	}

	time.AfterFunc(durationUntilMidnight, func() {
		if err := s.RefreshFeatured(); err != nil {
			log.Error().Err(err).Msg("featured refresh failed")
		}

		s.ticker = time.NewTicker(24 * time.Hour)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					if err := s.RefreshFeatured(); err != nil {
						log.Error().Err(err).Msg("featured refresh failed")
					}
				case <-s.done:
					return
				}
			}
		}()
	})
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.done <- true
	log.Info().Msg("scheduler stopped")
}

// RefreshFeatured fetches a fresh featured shelf for today unless one exists
func (s *Scheduler) RefreshFeatured() error {
	today := time.Now()
	normalizedToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	existing, err := s.FeaturedRepo.GetByDate(normalizedToday)
	if err == nil && len(existing) > 0 {
		log.Debug().
			Str("date", normalizedToday.Format("2006-01-02")).
			Int("count", len(existing)).
			Msg("featured shelf already populated")
		return nil
	}

	results, err := s.Books.BySubject(s.Subject, featuredShelfSize)
	if err != nil {
		return err
	}

	featured := models.FeaturedFromBooks(results, s.Subject)
	if err := s.FeaturedRepo.Replace(normalizedToday, featured); err != nil {
		return err
	}

	log.Info().
		Str("date", normalizedToday.Format("2006-01-02")).
		Str("subject", s.Subject).
		Int("count", len(featured)).
		Msg("featured shelf refreshed")

	return nil
}

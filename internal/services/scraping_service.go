package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joshua-takyi/lankaevents/internal/metrics"
	"github.com/joshua-takyi/lankaevents/internal/models"
	"github.com/joshua-takyi/lankaevents/internal/scheduler"
	"github.com/joshua-takyi/lankaevents/internal/scrapers"
)

const (
	// RetentionDays is how long after its end date an event is kept.
	RetentionDays = 30
	recentWindow  = 24 * time.Hour
)

type ScrapingService struct {
	eventsRepo    models.EventsRepo
	scrapers      []scrapers.Scraper
	scheduler     *scheduler.Scheduler
	metrics       *metrics.Manager
	logger        *slog.Logger
	now           func() time.Time
	enabled       bool
	intervalHours int

	running atomic.Bool

	mu      sync.RWMutex
	lastRun *models.RunReport
}

type ScrapingOption func(*ScrapingService)

func WithScrapers(s ...scrapers.Scraper) ScrapingOption {
	return func(svc *ScrapingService) { svc.scrapers = append([]scrapers.Scraper{}, s...) }
}

func WithSchedule(enabled bool, intervalHours int) ScrapingOption {
	return func(svc *ScrapingService) {
		svc.enabled = enabled
		svc.intervalHours = intervalHours
	}
}

func WithScheduler(s *scheduler.Scheduler) ScrapingOption {
	return func(svc *ScrapingService) { svc.scheduler = s }
}

func WithMetrics(m *metrics.Manager) ScrapingOption {
	return func(svc *ScrapingService) { svc.metrics = m }
}

func WithLogger(logger *slog.Logger) ScrapingOption {
	return func(svc *ScrapingService) { svc.logger = logger }
}

func WithClock(now func() time.Time) ScrapingOption {
	return func(svc *ScrapingService) { svc.now = now }
}

func NewScrapingService(eventsRepo models.EventsRepo, opts ...ScrapingOption) *ScrapingService {
	svc := &ScrapingService{
		eventsRepo:    eventsRepo,
		intervalHours: 6,
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.scrapers == nil {
		svc.scrapers = scrapers.All(scrapers.WithLogger(svc.logger), scrapers.WithClock(svc.now))
	}
	if svc.metrics == nil {
		svc.metrics = metrics.NewManager()
	}
	if svc.scheduler == nil {
		svc.scheduler = scheduler.New(svc.logger)
	}
	svc.logger = svc.logger.With("component", "scraping")
	return svc
}

// Initialize runs ingestion once and then schedules it every intervalHours.
// It does nothing when scraping is disabled.
func (s *ScrapingService) Initialize(ctx context.Context) error {
	if !s.enabled {
		s.logger.Info("Scraping is disabled")
		return nil
	}

	s.logger.Info("Initializing scraping service")
	s.RunScraping(ctx)

	err := s.scheduler.Every(s.intervalHours, func() {
		s.logger.Info("Scheduled scraping started", "interval_hours", s.intervalHours)
		s.RunScraping(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule scraping: %w", err)
	}
	s.logger.Info("Scraping service initialized", "interval_hours", s.intervalHours)
	return nil
}

func (s *ScrapingService) Stop(ctx context.Context) {
	s.scheduler.Stop(ctx)
}

func (s *ScrapingService) IsRunning() bool {
	return s.running.Load()
}

// TriggerAsync starts a run in the background and reports whether one was
// already in progress. The background run is detached from ctx's cancellation.
func (s *ScrapingService) TriggerAsync(ctx context.Context) (alreadyRunning bool) {
	alreadyRunning = s.IsRunning()
	go s.RunScraping(context.WithoutCancel(ctx))
	return alreadyRunning
}

// RunScraping performs one ingestion run. A call made while another run is in
// progress returns nil immediately. Scraper and item failures are logged and
// counted without aborting the run; an unreachable store aborts it.
func (s *ScrapingService) RunScraping(ctx context.Context) *models.RunReport {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("Scraping already in progress, skipping")
		s.metrics.RecordRun(metrics.RunSkipped, 0)
		return nil
	}
	defer s.running.Store(false)

	report := &models.RunReport{StartedAt: s.now()}
	s.logger.Info("Starting event scraping")

	if err := s.eventsRepo.Ping(ctx); err != nil {
		s.logger.Error("Scraping aborted, event store unreachable", "error", err)
		s.metrics.RecordRun(metrics.RunFailed, 0)
		return nil
	}

	for _, scraper := range s.scrapers {
		sr := models.SourceReport{Source: scraper.Name()}

		candidates, err := scraper.Scrape(ctx)
		if err != nil {
			s.logger.Error("Scraper failed", "source", scraper.Name(), "error", err)
			sr.Error = err.Error()
			report.Sources = append(report.Sources, sr)
			continue
		}
		sr.Candidates = len(candidates)

		sr.New, sr.Updated, sr.Failed = s.saveEvents(ctx, scraper.Name(), candidates)
		s.metrics.RecordUpserts(scraper.Name(), sr.New, sr.Updated, sr.Failed)
		s.logger.Info("Scraper saved events",
			"source", scraper.Name(),
			"new", sr.New,
			"updated", sr.Updated,
			"failed", sr.Failed,
		)

		report.New += sr.New
		report.Updated += sr.Updated
		report.Failed += sr.Failed
		report.Sources = append(report.Sources, sr)
	}

	s.logger.Info("Scraping completed", "new", report.New, "updated", report.Updated, "failed", report.Failed)

	report.Deleted = s.cleanupOldEvents(ctx)
	report.FinishedAt = s.now()

	s.mu.Lock()
	s.lastRun = report
	s.mu.Unlock()

	s.metrics.RecordRun(metrics.RunCompleted, report.FinishedAt.Sub(report.StartedAt))
	return report
}

func (s *ScrapingService) saveEvents(ctx context.Context, source string, candidates []models.CandidateEvent) (created, updated, failed int) {
	for _, c := range candidates {
		isNew, err := s.eventsRepo.UpsertBySourceURL(ctx, c, s.now())
		if err != nil {
			s.logger.Error("Error saving event",
				"source", source,
				"title", c.Title,
				"source_url", c.SourceURL,
				"error", err,
			)
			failed++
			continue
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}
	return created, updated, failed
}

// cleanupOldEvents deletes events that ended more than RetentionDays ago.
func (s *ScrapingService) cleanupOldEvents(ctx context.Context) int64 {
	cutoff := s.now().AddDate(0, 0, -RetentionDays)
	deleted, err := s.eventsRepo.DeleteEndedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("Error cleaning up old events", "error", err)
		return 0
	}
	if deleted > 0 {
		s.logger.Info("Cleaned up old events", "deleted", deleted)
		s.metrics.RecordDeleted(deleted)
	}
	return deleted
}

func (s *ScrapingService) GetStatus(ctx context.Context) (*models.ScrapingStatus, error) {
	total, err := s.eventsRepo.CountEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	recent, err := s.eventsRepo.CountCreatedSince(ctx, s.now().Add(-recentWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent events: %w", err)
	}
	last, err := s.eventsRepo.LatestScrapeTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last scrape time: %w", err)
	}

	s.mu.RLock()
	lastRun := s.lastRun
	s.mu.RUnlock()

	return &models.ScrapingStatus{
		TotalEvents:    total,
		RecentEvents:   recent,
		LastScrapeTime: last,
		IsRunning:      s.IsRunning(),
		LastRun:        lastRun,
	}, nil
}

package container

import (
	"log/slog"

	"github.com/joshua-takyi/lankaevents/internal/config"
	"github.com/joshua-takyi/lankaevents/internal/metrics"
	"github.com/joshua-takyi/lankaevents/internal/models"
	"github.com/joshua-takyi/lankaevents/internal/scheduler"
	"github.com/joshua-takyi/lankaevents/internal/scrapers"
	"github.com/joshua-takyi/lankaevents/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger  *slog.Logger
	Config  *config.Config
	Metrics *metrics.Manager

	EventsRepo      models.EventsRepo
	EventService    *services.EventService
	ScrapingService *services.ScrapingService
}

// NewContainer wires the event store into the query and ingestion services.
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	eventsRepo models.EventsRepo,
	m *metrics.Manager,
) *Container {
	if m == nil {
		m = metrics.NewManager()
	}

	eventService := services.NewEventService(eventsRepo, logger)
	scrapingService := services.NewScrapingService(eventsRepo,
		services.WithLogger(logger),
		services.WithMetrics(m),
		services.WithScheduler(scheduler.New(logger)),
		services.WithScrapers(scrapers.All(scrapers.WithLogger(logger))...),
		services.WithSchedule(cfg.ScrapingEnabled, cfg.ScrapingIntervalHours),
	)

	return &Container{
		Logger:          logger,
		Config:          cfg,
		Metrics:         m,
		EventsRepo:      eventsRepo,
		EventService:    eventService,
		ScrapingService: scrapingService,
	}
}

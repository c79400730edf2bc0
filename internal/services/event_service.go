package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/lankaevents/internal/models"
)

const (
	MsgFetchEventsFailed = "Failed to fetch events"
	MsgFetchEventFailed  = "Failed to fetch event"
)

type EventService struct {
	eventsRepo models.EventsRepo
	logger     *slog.Logger
}

func NewEventService(eventsRepo models.EventsRepo, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		eventsRepo: eventsRepo,
		logger:     logger.With("component", "events"),
	}
}

// SearchEvents never fails past this boundary: store errors become a failure
// envelope with an empty list.
func (es *EventService) SearchEvents(ctx context.Context, filters models.EventFilters) models.Envelope[[]*models.Event] {
	filters.SearchQuery = strings.TrimSpace(filters.SearchQuery)

	events, err := es.eventsRepo.SearchEvents(ctx, filters, models.SearchLimit)
	if err != nil {
		es.logger.Error("Error searching events", "error", err)
		return models.ErrorResponse([]*models.Event{}, MsgFetchEventsFailed)
	}
	return models.ListResponse(events)
}

// GetEventByID distinguishes a missing event (success with nil data) from a
// store failure (success=false).
func (es *EventService) GetEventByID(ctx context.Context, id string) models.Envelope[*models.Event] {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		es.logger.Error("Error fetching event", "id", id, "error", err)
		return models.ErrorResponse[*models.Event](nil, MsgFetchEventFailed)
	}
	return models.SuccessResponse(event)
}

package scrapers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/lankaevents/internal/models"
)

type culturalVenue struct {
	Name string
	City string
	Type string
}

var culturalVenues = []culturalVenue{
	{Name: "Nelum Pokuna Theatre", City: "Colombo", Type: "Theatre"},
	{Name: "Temple of the Tooth", City: "Kandy", Type: "Religious"},
	{Name: "Galle Fort", City: "Galle", Type: "Heritage"},
	{Name: "National Museum", City: "Colombo", Type: "Museum"},
}

var culturalEventsByType = map[string][]string{
	"Theatre":   {"Drama Performance", "Musical Concert", "Dance Recital", "Cultural Show"},
	"Religious": {"Poya Day Ceremony", "Buddhist Festival", "Meditation Retreat", "Religious Discourse"},
	"Heritage":  {"Heritage Walk", "Art Exhibition", "Cultural Festival", "Historical Tour"},
	"Museum":    {"Art Exhibition", "Cultural Workshop", "Educational Program", "Heritage Display"},
}

// CulturalEventScraper lists performances, ceremonies and exhibitions within the next month.
type CulturalEventScraper struct {
	*base
}

func NewCulturalEventScraper(opts ...Option) *CulturalEventScraper {
	return &CulturalEventScraper{base: newBase("Cultural Events", "https://culture.gov.lk", opts...)}
}

func (s *CulturalEventScraper) Scrape(ctx context.Context) ([]models.CandidateEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []models.CandidateEvent
	for _, v := range culturalVenues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		events = append(events, s.generate(v)...)
	}
	return s.finish(events), nil
}

func (s *CulturalEventScraper) generate(v culturalVenue) []models.CandidateEvent {
	eventTypes, ok := culturalEventsByType[v.Type]
	if !ok {
		eventTypes = culturalEventsByType["Heritage"]
	}
	religious := v.Type == "Religious"

	count := s.intBetween(1, 3)
	events := make([]models.CandidateEvent, 0, count)

	for i := 0; i < count; i++ {
		eventType := pick(s.base, eventTypes)

		now := s.now()
		start := now.AddDate(0, 0, s.intBetween(1, 30))
		end := start.Add(time.Duration(s.intBetween(1, 4)) * time.Hour)

		category := models.CategoryFestival
		if religious {
			category = models.CategoryReligious
		}

		// religious events are always free
		var price *float64
		if !religious && s.chance(0.6) {
			price = s.priceBetween(200, 1699)
		}

		events = append(events, models.CandidateEvent{
			Title: fmt.Sprintf("%s at %s", eventType, v.Name),
			Description: fmt.Sprintf("Experience the rich cultural heritage of Sri Lanka through this %s. Join us for an authentic "+
				"cultural experience that celebrates our traditions, arts, and community spirit. This event welcomes visitors from "+
				"all backgrounds to learn and appreciate Sri Lankan culture.", strings.ToLower(eventType)),
			StartDate: start,
			EndDate:   end,
			Location: models.Location{
				Name:        v.City,
				Coordinates: s.coordinatesForCity(v.City),
				Address:     fmt.Sprintf("%s, %s, Sri Lanka", v.Name, v.City),
			},
			Category:    category,
			TicketPrice: price,
			SourceURL:   s.sourceURL(s.baseURL+"/events", v.Name, now, i),
			Organizer:   v.Name,
			ImageURL:    s.imageURL(1800000, 400000),
		})
	}
	return events
}

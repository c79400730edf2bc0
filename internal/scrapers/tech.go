package scrapers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/lankaevents/internal/models"
)

type techOrganization struct {
	Name  string
	City  string
	Focus string
}

var techOrganizations = []techOrganization{
	{Name: "TechStars Colombo", City: "Colombo", Focus: "Startup"},
	{Name: "Google Developer Group Colombo", City: "Colombo", Focus: "Development"},
	{Name: "Kandy Tech Hub", City: "Kandy", Focus: "Innovation"},
	{Name: "Sri Lanka Association for Software Industry", City: "Colombo", Focus: "Industry"},
}

const hackathonDuration = 48 * time.Hour

var (
	techEventTypes = []string{
		"Meetup",
		"Workshop",
		"Hackathon",
		"Conference",
		"Networking Session",
		"Demo Day",
	}
	techTopics = []string{
		"AI & Machine Learning",
		"Web Development",
		"Mobile App Development",
		"Blockchain",
		"Cloud Computing",
		"Cybersecurity",
		"Data Science",
		"DevOps",
	}
)

// TechEventScraper lists developer community events three to seven weeks ahead.
type TechEventScraper struct {
	*base
}

func NewTechEventScraper(opts ...Option) *TechEventScraper {
	return &TechEventScraper{base: newBase("Tech Events", "https://techevents.lk", opts...)}
}

func (s *TechEventScraper) Scrape(ctx context.Context) ([]models.CandidateEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []models.CandidateEvent
	for _, org := range techOrganizations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		events = append(events, s.generate(org)...)
	}
	return s.finish(events), nil
}

func (s *TechEventScraper) generate(org techOrganization) []models.CandidateEvent {
	count := s.intBetween(1, 4)
	events := make([]models.CandidateEvent, 0, count)

	for i := 0; i < count; i++ {
		eventType := pick(s.base, techEventTypes)
		topic := pick(s.base, techTopics)

		now := s.now()
		start := now.AddDate(0, 0, s.intBetween(3, 47))
		duration := hackathonDuration
		if eventType != "Hackathon" {
			duration = time.Duration(s.intBetween(2, 7)) * time.Hour
		}

		var price *float64
		paid := eventType == "Workshop" || eventType == "Conference"
		if paid && s.chance(0.6) {
			price = s.priceBetween(1000, 3999)
		}

		title := fmt.Sprintf("%s %s - %s", topic, eventType, org.Name)
		description := fmt.Sprintf("Dive deep into %s with industry experts and fellow developers. This %s will cover the latest trends, "+
			"best practices, and hands-on experience. Perfect for developers, entrepreneurs, and tech enthusiasts looking to expand "+
			"their knowledge and network.", strings.ToLower(topic), strings.ToLower(eventType))

		var category models.Category
		switch eventType {
		case "Conference":
			category = models.CategoryConference
		case "Workshop":
			category = models.CategoryWorkshop
		default:
			category = Categorize(title, description)
		}

		events = append(events, models.CandidateEvent{
			Title:       title,
			Description: description,
			StartDate:   start,
			EndDate:     start.Add(duration),
			Location: models.Location{
				Name:        org.City,
				Coordinates: s.coordinatesForCity(org.City),
				Address:     fmt.Sprintf("%s Venue, %s, Sri Lanka", org.Name, org.City),
			},
			Category:    category,
			TicketPrice: price,
			SourceURL:   s.sourceURL(s.baseURL, org.Name, now, i),
			Organizer:   org.Name,
			ImageURL:    s.imageURL(2000000, 500000),
		})
	}
	return events
}

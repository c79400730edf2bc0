package scrapers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/lankaevents/internal/models"
)

type university struct {
	Name string
	URL  string
	City string
}

var universities = []university{
	{Name: "University of Colombo", URL: "https://www.cmb.ac.lk", City: "Colombo"},
	{Name: "University of Peradeniya", URL: "https://www.pdn.ac.lk", City: "Kandy"},
	{Name: "University of Moratuwa", URL: "https://www.mrt.ac.lk", City: "Colombo"},
}

var (
	universityEventTypes = []string{
		"Research Symposium",
		"Academic Conference",
		"Guest Lecture Series",
		"Student Workshop",
		"Faculty Seminar",
		"International Conference",
	}
	universitySubjects = []string{
		"Computer Science",
		"Engineering",
		"Medicine",
		"Business Administration",
		"Social Sciences",
		"Environmental Studies",
	}
)

// UniversityScraper lists academic events one to two months ahead.
type UniversityScraper struct {
	*base
}

func NewUniversityScraper(opts ...Option) *UniversityScraper {
	return &UniversityScraper{base: newBase("University Events", "https://universities.lk", opts...)}
}

func (s *UniversityScraper) Scrape(ctx context.Context) ([]models.CandidateEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []models.CandidateEvent
	for _, u := range universities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		events = append(events, s.generate(u)...)
	}
	return s.finish(events), nil
}

func (s *UniversityScraper) generate(u university) []models.CandidateEvent {
	count := s.intBetween(1, 3)
	events := make([]models.CandidateEvent, 0, count)

	for i := 0; i < count; i++ {
		eventType := pick(s.base, universityEventTypes)
		subject := pick(s.base, universitySubjects)

		now := s.now()
		start := now.AddDate(0, 0, s.intBetween(7, 66))
		end := start.Add(time.Duration(s.intBetween(2, 9)) * time.Hour)

		var price *float64
		if s.chance(0.3) {
			price = s.priceBetween(500, 2499)
		}

		events = append(events, models.CandidateEvent{
			Title: fmt.Sprintf("%s %s - %s", subject, eventType, u.Name),
			Description: fmt.Sprintf("Join us for an enlightening %s focusing on %s. This event will feature renowned speakers, "+
				"research presentations, and networking opportunities for students, faculty, and industry professionals.",
				strings.ToLower(eventType), strings.ToLower(subject)),
			StartDate: start,
			EndDate:   end,
			Location: models.Location{
				Name:        u.City,
				Coordinates: s.coordinatesForCity(u.City),
				Address:     fmt.Sprintf("%s, %s, Sri Lanka", u.Name, u.City),
			},
			Category:    models.CategoryAcademic,
			TicketPrice: price,
			SourceURL:   s.sourceURL(u.URL+"/events", u.Name, now, i),
			Organizer:   u.Name,
			ImageURL:    s.imageURL(1500000, 500000),
		})
	}
	return events
}

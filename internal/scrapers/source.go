// Package scrapers holds the event sources polled by the ingestion service.
// The sources synthesize plausible Sri Lankan events from fixed catalogs of
// organizations and venues; none of them perform network I/O.
package scrapers

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/lankaevents/internal/helpers"
	"github.com/joshua-takyi/lankaevents/internal/models"
)

// Scraper produces candidate events for one ingestion run.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context) ([]models.CandidateEvent, error)
}

type Option func(*base)

// WithRand fixes the random source, mainly for tests.
func WithRand(r *rand.Rand) Option {
	return func(b *base) {
		if r != nil {
			b.rng = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// All returns the default set of sources.
func All(opts ...Option) []Scraper {
	return []Scraper{
		NewUniversityScraper(opts...),
		NewTechEventScraper(opts...),
		NewCulturalEventScraper(opts...),
	}
}

// base carries what every source shares: identity, randomness and time.
type base struct {
	name    string
	baseURL string

	mu     sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
	logger *slog.Logger
}

func newBase(name, baseURL string, opts ...Option) *base {
	b := &base{
		name:    name,
		baseURL: baseURL,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "scraper", "source", name)
	return b
}

func (b *base) Name() string { return b.name }

// intBetween returns a value in [lo, hi].
func (b *base) intBetween(lo, hi int) int {
	return lo + b.rng.IntN(hi-lo+1)
}

func (b *base) chance(p float64) bool {
	return b.rng.Float64() < p
}

func pick[T any](b *base, items []T) T {
	return items[b.rng.IntN(len(items))]
}

// priceBetween returns a ticket price in [lo, hi] rupees.
func (b *base) priceBetween(lo, hi int) *float64 {
	p := float64(b.intBetween(lo, hi))
	return &p
}

// coordinatesForCity jitters a city's centre by up to coordinateJitter degrees
// on each axis so events in one city do not share a map pin. Unknown cities
// fall back to Colombo.
func (b *base) coordinatesForCity(city string) models.Coordinates {
	c, ok := cityCoordinates[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		c = cityCoordinates["colombo"]
	}
	return models.Coordinates{
		c[0] + (b.rng.Float64()-0.5)*2*coordinateJitter,
		c[1] + (b.rng.Float64()-0.5)*2*coordinateJitter,
	}
}

func (b *base) sourceURL(prefix, entity string, at time.Time, index int) string {
	return fmt.Sprintf("%s/%s/%d-%d", prefix, helpers.Slugify(entity), at.UnixNano(), index)
}

func (b *base) imageURL(photoBase, span int) string {
	id := photoBase + b.rng.IntN(span)
	return fmt.Sprintf("https://images.pexels.com/photos/%d/pexels-photo-%d.jpeg?auto=compress&cs=tinysrgb&w=400&h=300&fit=crop", id, id)
}

// finish logs the outcome of a scrape.
func (b *base) finish(events []models.CandidateEvent) []models.CandidateEvent {
	b.logger.Info("Scraper finished", "events", len(events))
	return events
}

const coordinateJitter = 0.025

var cityCoordinates = map[string]models.Coordinates{
	"colombo":      {6.9271, 79.8612},
	"kandy":        {7.2906, 80.6337},
	"galle":        {6.0535, 80.2210},
	"jaffna":       {9.6615, 80.0255},
	"negombo":      {7.2084, 79.8380},
	"anuradhapura": {8.3114, 80.4037},
	"matara":       {5.9549, 80.5550},
	"batticaloa":   {7.7102, 81.6924},
	"trincomalee":  {8.5874, 81.2152},
	"ratnapura":    {6.6828, 80.4000},
}

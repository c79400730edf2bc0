package models

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an EventsRepo kept in process memory. Text search matches an
// event when any query term occurs in its title, description or location name,
// approximating the Mongo text index without stemming.
type MemoryRepo struct {
	mu       sync.RWMutex
	bySource map[string]*Event
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bySource: make(map[string]*Event)}
}

func (m *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (m *MemoryRepo) UpsertBySourceURL(ctx context.Context, candidate CandidateEvent, now time.Time) (bool, error) {
	if err := validateCandidate(candidate); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.bySource[candidate.SourceURL]
	if !ok {
		event = &Event{ID: primitive.NewObjectID(), CreatedAt: now}
		m.bySource[candidate.SourceURL] = event
	}
	event.apply(candidate, now)
	return !ok, nil
}

// Put stores an event as-is, assigning an id when it has none.
func (m *MemoryRepo) Put(event Event) *Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	m.bySource[event.SourceURL] = &event
	out := event
	return &out
}

func (m *MemoryRepo) DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for url, e := range m.bySource {
		if e.EndDate.Before(cutoff) {
			delete(m.bySource, url)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemoryRepo) SearchEvents(ctx context.Context, filters EventFilters, limit int) ([]*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	categories := make(map[Category]bool, len(filters.Categories))
	for _, c := range filters.Categories {
		categories[c] = true
	}
	terms := strings.Fields(strings.ToLower(filters.SearchQuery))

	m.mu.RLock()
	out := make([]*Event, 0)
	for _, e := range m.bySource {
		if len(categories) > 0 && !categories[e.Category] {
			continue
		}
		if len(terms) > 0 && !matchesAnyTerm(e, terms) {
			continue
		}
		if filters.Bounds != nil && !filters.Bounds.Contains(e.Location.Coordinates) {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID.Hex() < out[j].ID.Hex()
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matchesAnyTerm(e *Event, terms []string) bool {
	text := strings.ToLower(e.Title + " " + e.Description + " " + e.Location.Name)
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func (m *MemoryRepo) GetEventByID(ctx context.Context, id string) (*Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.bySource {
		if e.ID == oid {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepo) CountEvents(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.bySource)), nil
}

func (m *MemoryRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, e := range m.bySource {
		if !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) LatestScrapeTime(ctx context.Context) (*time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *time.Time
	for _, e := range m.bySource {
		if latest == nil || e.LastScraped.After(*latest) {
			t := e.LastScraped
			latest = &t
		}
	}
	return latest, nil
}

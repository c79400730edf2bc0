package models

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

var (
	ErrStoreUnavailable = errors.New("event store unavailable")
	ErrInvalidCandidate = errors.New("invalid candidate event")
)

// EventsRepo is the event store. Only the ingestion path writes to it.
type EventsRepo interface {
	Ping(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
	// UpsertBySourceURL reports created=true when no event with the
	// candidate's sourceUrl existed before the call.
	UpsertBySourceURL(ctx context.Context, candidate CandidateEvent, now time.Time) (created bool, err error)
	DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	SearchEvents(ctx context.Context, filters EventFilters, limit int) ([]*Event, error)
	// GetEventByID returns nil, nil when no event has the id.
	GetEventByID(ctx context.Context, id string) (*Event, error)
	CountEvents(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	LatestScrapeTime(ctx context.Context) (*time.Time, error)
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func validateCandidate(c CandidateEvent) error {
	if err := Validate.Struct(c); err != nil {
		return errors.Join(ErrInvalidCandidate, err)
	}
	return nil
}

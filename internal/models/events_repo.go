package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const EventsColName = "events"

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized: %w", ErrStoreUnavailable)
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

func (mdb *MongodbRepo) Ping(ctx context.Context) error {
	if mdb.mongodbClient == nil {
		return fmt.Errorf("mongodb client is not initialized: %w", ErrStoreUnavailable)
	}
	if err := mdb.mongodbClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// EnsureIndexes creates the indexes used by ingestion, search and status.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return err
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sourceUrl", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("sourceUrl_unique"),
		},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "location.name", Value: "text"},
			},
			Options: options.Index().SetName("event_text"),
		},
		{
			Keys:    bson.D{{Key: "location.coordinates", Value: "2d"}},
			Options: options.Index().SetName("coordinates_2d"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category"),
		},
		{
			Keys: bson.D{
				{Key: "startDate", Value: 1},
				{Key: "category", Value: 1},
			},
			Options: options.Index().SetName("startDate_category"),
		},
		{
			Keys:    bson.D{{Key: "endDate", Value: 1}},
			Options: options.Index().SetName("endDate"),
		},
		{
			Keys:    bson.D{{Key: "lastScraped", Value: -1}},
			Options: options.Index().SetName("lastScraped_desc"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("createdAt"),
		},
	}

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating event indexes: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) UpsertBySourceURL(ctx context.Context, candidate CandidateEvent, now time.Time) (bool, error) {
	if err := validateCandidate(candidate); err != nil {
		return false, err
	}
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return false, err
	}

	filter := bson.M{"sourceUrl": candidate.SourceURL}
	update := bson.M{
		"$set": bson.M{
			"title":       candidate.Title,
			"description": candidate.Description,
			"startDate":   candidate.StartDate,
			"endDate":     candidate.EndDate,
			"location":    candidate.Location,
			"category":    candidate.Category,
			"ticketPrice": candidate.TicketPrice,
			"organizer":   candidate.Organizer,
			"imageUrl":    candidate.ImageURL,
			"lastScraped": now,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	res, err := col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("error upserting event %q: %w", candidate.SourceURL, err)
	}
	return res.UpsertedCount > 0, nil
}

func (mdb *MongodbRepo) DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return 0, err
	}
	res, err := col.DeleteMany(ctx, bson.M{"endDate": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("error deleting ended events: %w", err)
	}
	return res.DeletedCount, nil
}

func (mdb *MongodbRepo) SearchEvents(ctx context.Context, filters EventFilters, limit int) ([]*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startDate", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, BuildSearchFilter(filters), opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*Event, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding events: %w", err)
	}
	return events, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id string) (*Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// a malformed id cannot name a stored event
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, err
	}

	var event Event
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding event by ID: %w", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) CountEvents(ctx context.Context) (int64, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return 0, err
	}
	n, err := col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("error counting events: %w", err)
	}
	return n, nil
}

func (mdb *MongodbRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return 0, err
	}
	n, err := col.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
	if err != nil {
		return 0, fmt.Errorf("error counting recent events: %w", err)
	}
	return n, nil
}

func (mdb *MongodbRepo) LatestScrapeTime(ctx context.Context) (*time.Time, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne().
		SetSort(bson.D{{Key: "lastScraped", Value: -1}}).
		SetProjection(bson.M{"lastScraped": 1})

	var latest struct {
		LastScraped time.Time `bson:"lastScraped"`
	}
	err = col.FindOne(ctx, bson.D{}, opts).Decode(&latest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding last scraped event: %w", err)
	}
	return &latest.LastScraped, nil
}

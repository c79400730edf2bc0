package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/joshua-takyi/lankaevents/internal/models"
	. "github.com/smartystreets/goconvey/convey"
)

// brokenRepo fails every read.
type brokenRepo struct {
	*models.MemoryRepo
}

var errStoreDown = errors.New("connection refused")

func (b *brokenRepo) SearchEvents(ctx context.Context, filters models.EventFilters, limit int) ([]*models.Event, error) {
	return nil, errStoreDown
}

func (b *brokenRepo) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	return nil, errStoreDown
}

func TestEventService(t *testing.T) {
	ctx := context.Background()

	Convey("Given an event service", t, func() {
		repo := models.NewMemoryRepo()
		svc := NewEventService(repo, quietLog)

		Convey("When the store holds more events than the search limit", func() {
			for i := 0; i < models.SearchLimit+20; i++ {
				c := testCandidate(fmt.Sprintf("https://techevents.lk/bulk/%d", i))
				c.StartDate = testNow.Add(time.Duration(models.SearchLimit+20-i) * time.Hour)
				c.EndDate = c.StartDate.Add(time.Hour)
				_, err := repo.UpsertBySourceURL(ctx, c, testNow)
				So(err, ShouldBeNil)
			}

			res := svc.SearchEvents(ctx, models.EventFilters{})

			Convey("Then the result is capped and ordered by start date", func() {
				So(res.Success, ShouldBeTrue)
				So(res.Data, ShouldHaveLength, models.SearchLimit)
				So(*res.Total, ShouldEqual, models.SearchLimit)
				for i := 1; i < len(res.Data); i++ {
					So(res.Data[i-1].StartDate.After(res.Data[i].StartDate), ShouldBeFalse)
				}
			})
		})

		Convey("When the search text is only whitespace", func() {
			_, err := repo.UpsertBySourceURL(ctx, testCandidate("https://techevents.lk/one"), testNow)
			So(err, ShouldBeNil)

			res := svc.SearchEvents(ctx, models.EventFilters{SearchQuery: "   "})

			Convey("Then it behaves like no text filter", func() {
				So(res.Success, ShouldBeTrue)
				So(res.Data, ShouldHaveLength, 1)
			})
		})

		Convey("When an event is looked up by id", func() {
			stored := repo.Put(models.Event{SourceURL: "https://techevents.lk/lookup", Title: "Lookup"})

			found := svc.GetEventByID(ctx, stored.ID.Hex())
			missing := svc.GetEventByID(ctx, "000000000000000000000000")
			malformed := svc.GetEventByID(ctx, "not-an-id")

			Convey("Then a missing event is a success with no data", func() {
				So(found.Success, ShouldBeTrue)
				So(found.Data.Title, ShouldEqual, "Lookup")
				So(missing.Success, ShouldBeTrue)
				So(missing.Data, ShouldBeNil)
				So(malformed.Success, ShouldBeTrue)
				So(malformed.Data, ShouldBeNil)
			})
		})

		Convey("When the store fails", func() {
			svc := NewEventService(&brokenRepo{MemoryRepo: repo}, quietLog)

			list := svc.SearchEvents(ctx, models.EventFilters{})
			one := svc.GetEventByID(ctx, "000000000000000000000000")

			Convey("Then failure envelopes are returned", func() {
				So(list.Success, ShouldBeFalse)
				So(list.Data, ShouldNotBeNil)
				So(list.Data, ShouldBeEmpty)
				So(list.Message, ShouldEqual, MsgFetchEventsFailed)
				So(one.Success, ShouldBeFalse)
				So(one.Data, ShouldBeNil)
				So(one.Message, ShouldEqual, MsgFetchEventFailed)
			})
		})
	})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/joshua-takyi/lankaevents/internal/metrics"
	"github.com/joshua-takyi/lankaevents/internal/models"
	"github.com/joshua-takyi/lankaevents/internal/scheduler"
	"github.com/joshua-takyi/lankaevents/internal/scrapers"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	testNow    = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	quietLog   = slog.New(slog.NewTextHandler(io.Discard, nil))
	errScraper = errors.New("scraper exploded")
)

type fixedScraper struct {
	name   string
	events []models.CandidateEvent
	err    error
}

func (f *fixedScraper) Name() string { return f.name }

func (f *fixedScraper) Scrape(ctx context.Context) ([]models.CandidateEvent, error) {
	return f.events, f.err
}

// blockingScraper parks inside Scrape until released.
type blockingScraper struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingScraper) Name() string { return "Blocking" }

func (b *blockingScraper) Scrape(ctx context.Context) ([]models.CandidateEvent, error) {
	close(b.started)
	<-b.release
	return []models.CandidateEvent{testCandidate("https://techevents.lk/blocking/1-0")}, nil
}

// flakyRepo lets tests fail Ping on demand.
type flakyRepo struct {
	*models.MemoryRepo
	pingErr error
}

func (f *flakyRepo) Ping(ctx context.Context) error { return f.pingErr }

func testCandidate(url string) models.CandidateEvent {
	start := testNow.AddDate(0, 0, 10)
	return models.CandidateEvent{
		Title:       "DevOps Meetup - Kandy Tech Hub",
		Description: "Dive deep into devops with industry experts.",
		StartDate:   start,
		EndDate:     start.Add(4 * time.Hour),
		Location: models.Location{
			Name:        "Kandy",
			Coordinates: models.Coordinates{7.29, 80.63},
			Address:     "Kandy Tech Hub Venue, Kandy, Sri Lanka",
		},
		Category:  models.CategoryTech,
		SourceURL: url,
		Organizer: "Kandy Tech Hub",
	}
}

func candidates(n int) []models.CandidateEvent {
	out := make([]models.CandidateEvent, n)
	for i := range out {
		out[i] = testCandidate(fmt.Sprintf("https://techevents.lk/kandy-tech-hub/%d-%d", testNow.UnixNano(), i))
	}
	return out
}

func newTestScrapingService(repo models.EventsRepo, m *metrics.Manager, s ...scrapers.Scraper) *ScrapingService {
	return NewScrapingService(repo,
		WithScrapers(s...),
		WithMetrics(m),
		WithLogger(quietLog),
		WithClock(func() time.Time { return testNow }),
	)
}

func TestRunScraping(t *testing.T) {
	ctx := context.Background()

	Convey("Given a scraping service over a memory repo", t, func() {
		repo := models.NewMemoryRepo()
		m := metrics.NewManager()

		Convey("When the same candidates are ingested twice", func() {
			src := &fixedScraper{name: "Tech Events", events: candidates(5)}
			svc := newTestScrapingService(repo, m, src)

			first := svc.RunScraping(ctx)
			second := svc.RunScraping(ctx)

			Convey("Then the second run updates instead of duplicating", func() {
				So(first, ShouldNotBeNil)
				So(first.New, ShouldEqual, 5)
				So(first.Updated, ShouldEqual, 0)
				So(second.New, ShouldEqual, 0)
				So(second.Updated, ShouldEqual, 5)

				n, _ := repo.CountEvents(ctx)
				So(n, ShouldEqual, 5)

				events, _ := repo.SearchEvents(ctx, models.EventFilters{}, models.SearchLimit)
				urls := make(map[string]bool)
				for _, e := range events {
					So(urls[e.SourceURL], ShouldBeFalse)
					urls[e.SourceURL] = true
				}
				So(testutil.ToFloat64(m.Upserts("Tech Events", metrics.OutcomeUpdated)), ShouldEqual, 5)
			})
		})

		Convey("When one scraper fails and one item is invalid", func() {
			good := candidates(3)
			good[1].SourceURL = "not a url"
			svc := newTestScrapingService(repo, m,
				&fixedScraper{name: "Broken", err: errScraper},
				&fixedScraper{name: "Tech Events", events: good},
			)

			report := svc.RunScraping(ctx)

			Convey("Then the failures are isolated", func() {
				So(report, ShouldNotBeNil)
				So(report.Sources, ShouldHaveLength, 2)
				So(report.Sources[0].Error, ShouldEqual, errScraper.Error())
				So(report.Sources[1].New, ShouldEqual, 2)
				So(report.Sources[1].Failed, ShouldEqual, 1)
				So(report.Failed, ShouldEqual, 1)

				n, _ := repo.CountEvents(ctx)
				So(n, ShouldEqual, 2)
				So(svc.IsRunning(), ShouldBeFalse)
			})
		})

		Convey("When a run is triggered while another is in progress", func() {
			blocker := &blockingScraper{started: make(chan struct{}), release: make(chan struct{})}
			svc := newTestScrapingService(repo, m, blocker)

			done := make(chan *models.RunReport)
			go func() { done <- svc.RunScraping(ctx) }()
			<-blocker.started

			skipped := svc.RunScraping(ctx)
			running := svc.IsRunning()
			countDuring, _ := repo.CountEvents(ctx)

			close(blocker.release)
			finished := <-done

			Convey("Then the overlapping trigger is dropped", func() {
				So(skipped, ShouldBeNil)
				So(running, ShouldBeTrue)
				So(countDuring, ShouldEqual, 0)
				So(testutil.ToFloat64(m.Runs(metrics.RunSkipped)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.Runs(metrics.RunCompleted)), ShouldEqual, 1)
				So(finished, ShouldNotBeNil)
				So(finished.New, ShouldEqual, 1)
				So(svc.IsRunning(), ShouldBeFalse)
			})
		})

		Convey("When the store is unreachable", func() {
			flaky := &flakyRepo{MemoryRepo: repo, pingErr: models.ErrStoreUnavailable}
			svc := newTestScrapingService(flaky, m, &fixedScraper{name: "Tech Events", events: candidates(2)})

			report := svc.RunScraping(ctx)

			Convey("Then the run aborts and the flag is cleared", func() {
				So(report, ShouldBeNil)
				So(svc.IsRunning(), ShouldBeFalse)
				So(testutil.ToFloat64(m.Runs(metrics.RunFailed)), ShouldEqual, 1)
				n, _ := repo.CountEvents(ctx)
				So(n, ShouldEqual, 0)

				flaky.pingErr = nil
				So(svc.RunScraping(ctx), ShouldNotBeNil)
				n, _ = repo.CountEvents(ctx)
				So(n, ShouldEqual, 2)
			})
		})

		Convey("When cleanup runs", func() {
			repo.Put(models.Event{SourceURL: "https://x.lk/31", EndDate: testNow.AddDate(0, 0, -31)})
			repo.Put(models.Event{SourceURL: "https://x.lk/29", EndDate: testNow.AddDate(0, 0, -29)})
			svc := newTestScrapingService(repo, m)

			report := svc.RunScraping(ctx)

			Convey("Then only events ended more than 30 days ago are deleted", func() {
				So(report.Deleted, ShouldEqual, 1)
				events, _ := repo.SearchEvents(ctx, models.EventFilters{}, models.SearchLimit)
				So(events, ShouldHaveLength, 1)
				So(events[0].SourceURL, ShouldEqual, "https://x.lk/29")
			})
		})
	})
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()

	Convey("Given a scraping service", t, func() {
		repo := models.NewMemoryRepo()
		svc := newTestScrapingService(repo, metrics.NewManager(), &fixedScraper{name: "Tech Events", events: candidates(3)})

		Convey("When nothing has been scraped", func() {
			status, err := svc.GetStatus(ctx)

			Convey("Then counts are zero and no scrape time is reported", func() {
				So(err, ShouldBeNil)
				So(status.TotalEvents, ShouldEqual, 0)
				So(status.LastScrapeTime, ShouldBeNil)
				So(status.IsRunning, ShouldBeFalse)
				So(status.LastRun, ShouldBeNil)
			})
		})

		Convey("When a run has completed", func() {
			repo.Put(models.Event{SourceURL: "https://x.lk/old", CreatedAt: testNow.AddDate(0, 0, -3), LastScraped: testNow.AddDate(0, 0, -3), EndDate: testNow})
			svc.RunScraping(ctx)
			status, err := svc.GetStatus(ctx)

			Convey("Then the snapshot reflects the store and the last run", func() {
				So(err, ShouldBeNil)
				So(status.TotalEvents, ShouldEqual, 4)
				So(status.RecentEvents, ShouldEqual, 3)
				So(status.LastScrapeTime.Equal(testNow), ShouldBeTrue)
				So(status.LastRun, ShouldNotBeNil)
				So(status.LastRun.New, ShouldEqual, 3)
			})
		})
	})
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	Convey("Given the scraping service configuration", t, func() {
		repo := models.NewMemoryRepo()
		sched := scheduler.New(quietLog)
		src := &fixedScraper{name: "Tech Events", events: candidates(2)}

		Convey("When scraping is disabled", func() {
			svc := NewScrapingService(repo, WithScrapers(src), WithScheduler(sched), WithLogger(quietLog), WithSchedule(false, 6))
			err := svc.Initialize(ctx)

			Convey("Then nothing runs and nothing is scheduled", func() {
				So(err, ShouldBeNil)
				So(sched.Entries(), ShouldEqual, 0)
				n, _ := repo.CountEvents(ctx)
				So(n, ShouldEqual, 0)
			})
		})

		Convey("When scraping is enabled", func() {
			svc := NewScrapingService(repo, WithScrapers(src), WithScheduler(sched), WithLogger(quietLog), WithSchedule(true, 6))
			err := svc.Initialize(ctx)
			defer svc.Stop(ctx)

			Convey("Then an immediate run happens and a recurring one is scheduled", func() {
				So(err, ShouldBeNil)
				So(sched.Entries(), ShouldEqual, 1)
				n, _ := repo.CountEvents(ctx)
				So(n, ShouldEqual, 2)
			})
		})
	})
}

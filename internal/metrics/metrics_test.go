package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := NewManager()

		Convey("When runs and upserts are recorded", func() {
			m.RecordRun(RunCompleted, 2*time.Second)
			m.RecordRun(RunSkipped, 0)
			m.RecordRun(RunSkipped, 0)
			m.RecordUpserts("Tech Events", 3, 2, 1)
			m.RecordDeleted(4)

			Convey("Then counters reflect them per label", func() {
				So(testutil.ToFloat64(m.Runs(RunCompleted)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.Runs(RunSkipped)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.Upserts("Tech Events", OutcomeNew)), ShouldEqual, 3)
				So(testutil.ToFloat64(m.Upserts("Tech Events", OutcomeUpdated)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.Upserts("Tech Events", OutcomeFailed)), ShouldEqual, 1)
			})
		})

		Convey("When the handler is scraped", func() {
			m.RecordHTTPRequest("/api/events", "GET", "200", 10*time.Millisecond)
			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then it serves the namespaced series", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(strings.Contains(rec.Body.String(), "lankaevents_http_requests_total"), ShouldBeTrue)
			})
		})
	})
}

package httpmetrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haltridge/epicast/internal/adapters/httpmetrics"
	"github.com/haltridge/epicast/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func testLogger() logger.Logger {
	_ = logger.Init()
	return logger.Get()
}

func TestServer_HealthzReturnsOK(t *testing.T) {
	Convey("Given an httpmetrics.Server", t, func() {
		s := httpmetrics.New(":0", testLogger())
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()

		s.Handler().ServeHTTP(rec, req)

		Convey("/healthz responds 200", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestServer_MetricsExposesPrometheusFormat(t *testing.T) {
	Convey("Given an httpmetrics.Server", t, func() {
		s := httpmetrics.New(":0", testLogger())
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()

		s.Handler().ServeHTTP(rec, req)

		Convey("/metrics responds 200 with a text/plain content type", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "text/plain")
		})
	})
}

func TestServer_ShutdownWithoutStart(t *testing.T) {
	Convey("Given a Server that was never started", t, func() {
		s := httpmetrics.New(":0", testLogger())

		Convey("Shutdown still returns without error", func() {
			err := s.Shutdown(context.Background())
			So(err, ShouldBeNil)
		})
	})
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncStageFailure(t *testing.T) {
	before := testutil.ToFloat64(stageFailures.WithLabelValues("jd", FailureStatus))
	IncStageFailure("jd", FailureStatus)
	after := testutil.ToFloat64(stageFailures.WithLabelValues("jd", "status"))
	if after-before != 1 {
		t.Fatalf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestHandlerExposesFamilies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ObserveAnalysis("combined", "completed", 2*time.Second)
	IncNormalized("v1.1")

	r := gin.New()
	r.GET("/metrics", Handler())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"fit_analyses_total", "fit_normalized_total", "fit_analysis_duration_seconds"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestStatusClass(t *testing.T) {
	if statusClass(502) != "5xx" || statusClass(404) != "4xx" || statusClass(201) != "2xx" {
		t.Fatalf("unexpected status classes")
	}
}

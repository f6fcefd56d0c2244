package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/signalmine/painsignal/internal/aggregate"
	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/processor"
	"github.com/signalmine/painsignal/internal/rules"
	"github.com/signalmine/painsignal/internal/scorer"
)

type stubHealth struct{ err error }

func (s *stubHealth) Health(_ context.Context) error { return s.err }

func testRouter(t *testing.T, embedding EmbeddingHealthChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	table := rules.MustCompileDefault()
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	sc := scorer.NewScorer(table, nil).WithClock(func() time.Time { return now })
	aggregator := aggregate.New(nil)
	lexical := processor.NewPipeline(sc, nil, aggregator, 4, nil, nil)

	handler := NewHandler(HandlerConfig{
		Scorer:     sc,
		Pipeline:   lexical,
		Lexical:    lexical,
		Aggregator: aggregator,
		Embedding:  embedding,
		BatchLimit: 10,
		Service:    "painsignal",
		Version:    "test",
	})

	router := gin.New()
	SetupRoutes(router, handler, nil)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScoreSignalEndpoint(t *testing.T) {
	router := testRouter(t, nil)

	body := `{"fragment":{"text":"This app is terrible, I'm looking for an alternative to it."}}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/signals/score", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp ScoreResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Signal == nil {
		t.Fatal("Signal missing from response")
	}
	if resp.Signal.Score != 7.5 {
		t.Errorf("Score = %v, want 7.5", resp.Signal.Score)
	}
	if resp.Signal.Intensity != domain.IntensityHigh {
		t.Errorf("Intensity = %v, want high", resp.Signal.Intensity)
	}
	if resp.RulesVersion == "" {
		t.Error("RulesVersion missing from response")
	}
}

func TestScoreSignalBadRequest(t *testing.T) {
	router := testRouter(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"fragment":`},
		{"missing fragment", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/signals/score", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestScoreBatchEndpoint(t *testing.T) {
	router := testRouter(t, nil)

	body := `{"fragments":[
		{"text":"so frustrating, it keeps failing"},
		{"text":"works great"}
	]}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/signals/score/batch", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp BatchScoreResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Signals) != 2 {
		t.Errorf("Total = %d, Signals = %d, want 2/2", resp.Total, len(resp.Signals))
	}
	if resp.Filtered != 0 {
		t.Errorf("Filtered = %d, want 0 without the semantic stage", resp.Filtered)
	}
}

func TestScoreBatchOverLimit(t *testing.T) {
	router := testRouter(t, nil)

	var sb strings.Builder
	sb.WriteString(`{"fragments":[`)
	for i := 0; i < 11; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"text":"x"}`)
	}
	sb.WriteString(`]}`)

	w := doJSON(t, router, http.MethodPost, "/api/v1/signals/score/batch", sb.String())
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for batch over limit", w.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	router := testRouter(t, nil)

	body := `{"signals":[
		{"id":"a","score":8.0,"intensity":"high","recency_multiplier":1.5},
		{"id":"b","score":2.0,"intensity":"low","recency_multiplier":1.0}
	]}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/summary", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp SummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary == nil || resp.Summary.TotalSignals != 2 {
		t.Errorf("Summary = %+v, want 2 signals", resp.Summary)
	}
	if resp.Summary.AverageScore != 5.0 {
		t.Errorf("AverageScore = %v, want 5.0", resp.Summary.AverageScore)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := testRouter(t, nil)

	body := `{"fragments":[
		{"text":"I hate this, it keeps crashing"},
		{"text":"I wish it could be better"}
	]}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Signals) != 2 {
		t.Errorf("Signals = %d, want 2", len(resp.Signals))
	}
	if resp.Summary == nil || resp.Summary.TotalSignals != 2 {
		t.Errorf("Summary = %+v, want 2 signals", resp.Summary)
	}
	if resp.Summary.Confidence == "" {
		t.Error("Summary.Confidence not set")
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter(t, nil)

	for _, path := range []string{"/health", "/ready"} {
		w := doJSON(t, router, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, w.Code)
		}
	}
}

func TestEmbeddingHealthDisabled(t *testing.T) {
	router := testRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/embedding/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "disabled") {
		t.Errorf("body = %s, want disabled status", w.Body.String())
	}
}

func TestEmbeddingHealthUnreachable(t *testing.T) {
	router := testRouter(t, &stubHealth{err: errors.New("connection refused")})

	w := doJSON(t, router, http.MethodGet, "/api/v1/embedding/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestEmbeddingHealthHealthy(t *testing.T) {
	router := testRouter(t, &stubHealth{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/embedding/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

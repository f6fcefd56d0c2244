package semantic

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/rules"
)

// mockEmbedder maps texts to fixed vectors. Unknown texts embed to nil,
// mirroring the collaborator's per-item failure mode.
type mockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
	err     error
	calls   int
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = m.vectors[text]
	}
	return out, nil
}

// axis returns a 7-dimensional basis vector. Dimensions 0 and 1 are the
// praise and complaint anchors; 2-6 are the category anchors in fixed order.
func axis(i int) []float64 {
	v := make([]float64, 7)
	v[i] = 1
	return v
}

func anchoredEmbedder(table *rules.Compiled) *mockEmbedder {
	vectors := map[string][]float64{
		table.Anchors.Praise:    axis(0),
		table.Anchors.Complaint: axis(1),
	}
	for i, cat := range categoryOrder {
		vectors[table.Anchors.Categories[cat]] = axis(2 + i)
	}
	return &mockEmbedder{vectors: vectors}
}

func intPtr(v int) *int { return &v }

func TestClassifyDropsPraise(t *testing.T) {
	table := rules.MustCompileDefault()
	embedder := anchoredEmbedder(table)
	embedder.vectors["Amazing app, love it, works perfectly!"] = axis(0)
	embedder.vectors["It keeps crashing and freezing"] = axis(5) // performance

	classifier := NewClassifier(embedder, table, nil, nil)

	signals := []*domain.PainSignal{
		{ID: "praise", Text: "Amazing app, love it, works perfectly!", Rating: intPtr(5)},
		{ID: "pain", Text: "It keeps crashing and freezing"},
	}

	out, err := classifier.Classify(context.Background(), signals)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d signals, want 1 after praise drop", len(out))
	}
	if out[0].ID != "pain" {
		t.Errorf("surviving signal = %q, want pain", out[0].ID)
	}
	if out[0].Category != domain.CategoryPerformance {
		t.Errorf("Category = %v, want performance", out[0].Category)
	}
	if out[0].CategoryConfidence != 1.0 {
		t.Errorf("CategoryConfidence = %v, want 1.0", out[0].CategoryConfidence)
	}
}

func TestClassifyLowRatingNeverPraise(t *testing.T) {
	table := rules.MustCompileDefault()
	embedder := anchoredEmbedder(table)
	// Praise-shaped text, but the author left a 2-star rating.
	embedder.vectors["great app but..."] = axis(0)

	classifier := NewClassifier(embedder, table, nil, nil)

	out, err := classifier.Classify(context.Background(), []*domain.PainSignal{
		{ID: "sarcastic", Text: "great app but...", Rating: intPtr(2)},
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d signals, want 1: a low rating gates the praise filter", len(out))
	}
}

func TestClassifyPraiseRequiresMargin(t *testing.T) {
	table := rules.MustCompileDefault()
	embedder := anchoredEmbedder(table)
	// Similar to praise and complaint alike: above the floor but inside the
	// margin, so it must be kept.
	embedder.vectors["mixed feelings"] = []float64{0.7, 0.68, 0, 0, 0, 0, 0}

	classifier := NewClassifier(embedder, table, nil, nil)

	out, err := classifier.Classify(context.Background(), []*domain.PainSignal{
		{ID: "mixed", Text: "mixed feelings"},
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(out) != 1 {
		t.Fatal("ambiguous fragment was dropped, want kept")
	}
}

func TestClassifyNilVectorFailsOpen(t *testing.T) {
	table := rules.MustCompileDefault()
	embedder := anchoredEmbedder(table)
	// "unembeddable" has no vector: it passes through with the default
	// category at zero confidence.
	classifier := NewClassifier(embedder, table, nil, nil)

	out, err := classifier.Classify(context.Background(), []*domain.PainSignal{
		{ID: "x", Text: "unembeddable"},
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(out) != 1 {
		t.Fatal("signal with nil vector was dropped, want kept")
	}
	if out[0].Category != domain.CategoryFeatures {
		t.Errorf("Category = %v, want features fallback", out[0].Category)
	}
	if out[0].CategoryConfidence != 0 {
		t.Errorf("CategoryConfidence = %v, want 0", out[0].CategoryConfidence)
	}
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	table := rules.MustCompileDefault()
	embedder := anchoredEmbedder(table)
	embedder.vectors["slow and laggy"] = axis(5)

	classifier := NewClassifier(embedder, table, nil, nil)

	in := &domain.PainSignal{ID: "s", Text: "slow and laggy"}
	out, err := classifier.Classify(context.Background(), []*domain.PainSignal{in})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if in.Category != "" {
		t.Errorf("input signal mutated: Category = %v", in.Category)
	}
	if out[0].Category != domain.CategoryPerformance {
		t.Errorf("output Category = %v, want performance", out[0].Category)
	}
}

func TestAnchorInitFailureDisablesStage(t *testing.T) {
	table := rules.MustCompileDefault()
	embedder := &mockEmbedder{err: errors.New("connection refused")}
	classifier := NewClassifier(embedder, table, nil, nil)

	signals := []*domain.PainSignal{{ID: "a", Text: "whatever"}}

	out, err := classifier.Classify(context.Background(), signals)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(out) != 1 || out[0].Category != domain.CategoryFeatures {
		t.Errorf("disabled stage output = %+v, want features passthrough", out)
	}

	// The failure is remembered: no further embedding calls happen.
	callsAfterFirst := embedder.calls
	if _, err := classifier.Classify(context.Background(), signals); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if embedder.calls != callsAfterFirst {
		t.Errorf("embedder called %d times after disable, want %d", embedder.calls, callsAfterFirst)
	}
}

func TestCancelledCallerDoesNotDisableStage(t *testing.T) {
	table := rules.MustCompileDefault()
	embedder := anchoredEmbedder(table)
	embedder.vectors["videos buffer forever"] = axis(5)
	classifier := NewClassifier(embedder, table, nil, nil)

	// First caller disconnects before the anchors are built.
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := classifier.Classify(cancelled, []*domain.PainSignal{
		{ID: "a", Text: "videos buffer forever"},
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(out) != 1 || out[0].Category != domain.CategoryFeatures {
		t.Fatalf("cancelled batch output = %+v, want features passthrough", out)
	}

	// A healthy caller right after must get full classification: the
	// cancellation was the caller's, not the embedder's.
	out, err = classifier.Classify(context.Background(), []*domain.PainSignal{
		{ID: "a", Text: "videos buffer forever"},
	})
	if err != nil {
		t.Fatalf("Classify after cancellation: %v", err)
	}
	if out[0].Category != domain.CategoryPerformance {
		t.Errorf("Category = %v, want performance after retried anchor build", out[0].Category)
	}
}

func TestCategorizeSkipsMissingAnchors(t *testing.T) {
	table := rules.MustCompileDefault()
	embedder := anchoredEmbedder(table)
	// The pricing anchor failed to embed; the remaining four still classify.
	delete(embedder.vectors, table.Anchors.Categories[domain.CategoryPricing])
	embedder.vectors["ads interrupt every video"] = axis(3)

	classifier := NewClassifier(embedder, table, nil, nil)

	out, err := classifier.Classify(context.Background(), []*domain.PainSignal{
		{ID: "a", Text: "ads interrupt every video"},
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if out[0].Category != domain.CategoryAds {
		t.Errorf("Category = %v, want ads despite a missing anchor", out[0].Category)
	}
	if out[0].CategoryConfidence != 1.0 {
		t.Errorf("CategoryConfidence = %v, want 1.0", out[0].CategoryConfidence)
	}
}

func TestResetAnchorsRecovers(t *testing.T) {
	table := rules.MustCompileDefault()
	embedder := &mockEmbedder{err: errors.New("connection refused")}
	classifier := NewClassifier(embedder, table, nil, nil)

	if _, err := classifier.Classify(context.Background(), []*domain.PainSignal{{ID: "a", Text: "t"}}); err != nil {
		t.Fatalf("Classify: %v", err)
	}

	// Service comes back.
	healthy := anchoredEmbedder(table)
	embedder.mu.Lock()
	embedder.err = nil
	embedder.vectors = healthy.vectors
	embedder.mu.Unlock()
	classifier.ResetAnchors()

	embedder.mu.Lock()
	embedder.vectors["slow loading everywhere"] = axis(5)
	embedder.mu.Unlock()

	out, err := classifier.Classify(context.Background(), []*domain.PainSignal{
		{ID: "a", Text: "slow loading everywhere"},
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if out[0].Category != domain.CategoryPerformance {
		t.Errorf("Category after reset = %v, want performance", out[0].Category)
	}
}

func TestAnchorsBuiltOncePerProcess(t *testing.T) {
	table := rules.MustCompileDefault()
	embedder := anchoredEmbedder(table)
	classifier := NewClassifier(embedder, table, nil, nil)

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = classifier.Classify(context.Background(), []*domain.PainSignal{
				{ID: "a", Text: "some text"},
			})
		}()
	}
	wg.Wait()

	// 8 concurrent classifications: one shared anchor build plus one
	// embedding pass each.
	embedder.mu.Lock()
	calls := embedder.calls
	embedder.mu.Unlock()
	if calls != 9 {
		t.Errorf("embedder calls = %d, want 9 (1 anchor build + 8 batches)", calls)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []float64
		want   float64
		wantOK bool
	}{
		{"identical", []float64{1, 0}, []float64{1, 0}, 1, true},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0, true},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1, true},
		{"dimension mismatch", []float64{1, 0}, []float64{1}, 0, false},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0, false},
		{"empty", nil, nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cosineSimilarity(tt.a, tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("cosineSimilarity = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// Package semantic implements the embedding-based second scoring stage:
// a praise filter that drops pure-testimonial fragments, and a
// five-category classifier for the rest. Both compare fragment vectors
// against lazily initialized anchor vectors by cosine similarity and fail
// open when the embedding collaborator is unavailable.
package semantic

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/logger"
	"github.com/signalmine/painsignal/internal/rules"
	"github.com/signalmine/painsignal/internal/telemetry"
)

const anchorInitKey = "anchors"

// Embedder is the contract with the embedding collaborator. EmbedBatch
// must return a slice of the same length as texts, with nil entries for
// items that failed to embed.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Classifier holds the anchor cache and classification thresholds.
// Anchors are computed once per process via a single-flight guard so
// concurrent first-use callers share one round trip; a total
// initialization failure disables semantic classification for the process
// lifetime.
type Classifier struct {
	embedder  Embedder
	table     *rules.Compiled
	logger    logger.Logger
	telemetry *telemetry.Provider

	group singleflight.Group

	mu       sync.RWMutex
	anchors  *AnchorSet
	disabled bool
}

// NewClassifier creates a classifier. tp may be nil.
func NewClassifier(embedder Embedder, table *rules.Compiled, log logger.Logger, tp *telemetry.Provider) *Classifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &Classifier{
		embedder:  embedder,
		table:     table,
		logger:    log,
		telemetry: tp,
	}
}

// anchorSet returns the cached anchors, initializing them on first use.
// Returns nil when initialization failed; the failure is logged once and
// not retried per call.
func (c *Classifier) anchorSet(ctx context.Context) *AnchorSet {
	c.mu.RLock()
	anchors, disabled := c.anchors, c.disabled
	c.mu.RUnlock()
	if anchors != nil || disabled {
		return anchors
	}

	result, err, _ := c.group.Do(anchorInitKey, func() (any, error) {
		c.mu.RLock()
		cached := c.anchors
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		built, buildErr := c.buildAnchors(ctx)
		c.mu.Lock()
		defer c.mu.Unlock()
		if buildErr != nil {
			// A caller cancellation says nothing about the embedder; leave
			// the stage enabled so the next caller retries the build.
			if errors.Is(buildErr, context.Canceled) || errors.Is(buildErr, context.DeadlineExceeded) {
				c.logger.Warn("anchor initialization interrupted, will retry on next use",
					logger.Error(buildErr))
				return nil, buildErr
			}
			c.disabled = true
			c.logger.Error("anchor initialization failed, semantic classification disabled",
				logger.Error(buildErr))
			return nil, buildErr
		}
		c.anchors = built
		return built, nil
	})
	if err != nil {
		return nil
	}
	return result.(*AnchorSet)
}

// ResetAnchors clears the anchor cache so the next call recomputes it.
// Anchors are otherwise immutable for the process lifetime.
func (c *Classifier) ResetAnchors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchors = nil
	c.disabled = false
}

// isPraise applies the calibrated praise rule to one fragment vector.
// Fragments with a rating at or below the configured maximum are never
// praise regardless of similarity.
func (c *Classifier) isPraise(anchors *AnchorSet, vector []float64, rating *int) bool {
	if rating != nil && *rating <= c.table.Params.PraiseMaxRating {
		return false
	}

	praiseSim, ok := cosineSimilarity(vector, anchors.Praise)
	if !ok {
		return false
	}
	complaintSim, ok := cosineSimilarity(vector, anchors.Complaint)
	if !ok {
		return false
	}

	return praiseSim > c.table.Params.PraiseMinSimilarity &&
		praiseSim > complaintSim+c.table.Params.PraiseMargin
}

// categorize assigns the category of highest cosine similarity, with that
// similarity as confidence. Anchors that failed to embed are skipped;
// features at zero confidence is the fallback only when no anchor is
// comparable.
func (c *Classifier) categorize(anchors *AnchorSet, vector []float64) (domain.Category, float64) {
	if anchors == nil || vector == nil {
		return domain.CategoryFeatures, 0
	}

	best := domain.CategoryFeatures
	bestSim := 0.0
	assigned := false
	for _, cat := range categoryOrder {
		sim, ok := cosineSimilarity(vector, anchors.Categories[cat])
		if !ok {
			continue
		}
		if !assigned || sim > bestSim {
			best, bestSim = cat, sim
			assigned = true
		}
	}
	if !assigned {
		return domain.CategoryFeatures, 0
	}
	return best, bestSim
}

// Classify runs the praise filter and the category classifier over a batch
// of signals in one embedding pass. Praise fragments are dropped; every
// surviving signal is returned as a new value with its category assigned.
// Embedding failures fail open: the affected signals pass through
// unfiltered with the default category at zero confidence.
func (c *Classifier) Classify(ctx context.Context, signals []*domain.PainSignal) ([]*domain.PainSignal, error) {
	if len(signals) == 0 {
		return signals, nil
	}

	anchors := c.anchorSet(ctx)
	if anchors == nil {
		// Initialization failed: pass everything through with defaults.
		out := make([]*domain.PainSignal, 0, len(signals))
		for _, sig := range signals {
			out = append(out, withCategory(sig, domain.CategoryFeatures, 0))
		}
		return out, nil
	}

	texts := make([]string, len(signals))
	for i, sig := range signals {
		texts[i] = sig.Text
	}

	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return signals, err
	}

	out := make([]*domain.PainSignal, 0, len(signals))
	for i, sig := range signals {
		vector := vectors[i]

		if vector != nil && anchors.PraiseUsable() && c.isPraise(anchors, vector, sig.Rating) {
			if c.telemetry != nil {
				c.telemetry.RecordPraiseFiltered()
			}
			c.logger.Debug("praise fragment dropped",
				logger.String("signal_id", sig.ID))
			continue
		}

		category, confidence := c.categorize(anchors, vector)
		if c.telemetry != nil {
			c.telemetry.RecordCategory(string(category))
		}
		out = append(out, withCategory(sig, category, confidence))
	}

	return out, nil
}

// withCategory returns a copy of the signal with its semantic category
// set. Signals are never mutated after creation.
func withCategory(sig *domain.PainSignal, category domain.Category, confidence float64) *domain.PainSignal {
	clone := *sig
	clone.Category = category
	clone.CategoryConfidence = confidence
	return &clone
}

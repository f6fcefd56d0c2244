package semantic

import (
	"context"
	"errors"

	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/logger"
)

// categoryOrder fixes the iteration order over category anchors so
// classification is deterministic when similarities tie.
var categoryOrder = []domain.Category{
	domain.CategoryPricing,
	domain.CategoryAds,
	domain.CategoryContent,
	domain.CategoryPerformance,
	domain.CategoryFeatures,
}

// ErrAnchorsUnavailable is returned when anchor initialization failed and
// semantic classification is disabled for the process lifetime.
var ErrAnchorsUnavailable = errors.New("anchor embeddings unavailable")

// AnchorSet holds the reference embedding vectors built once from the
// configured descriptive text blocks. Immutable after construction.
type AnchorSet struct {
	Praise     []float64
	Complaint  []float64
	Categories map[domain.Category][]float64
}

// PraiseUsable reports whether the praise filter has both of its anchors.
func (a *AnchorSet) PraiseUsable() bool {
	return a != nil && a.Praise != nil && a.Complaint != nil
}

// CategoriesUsable reports whether every category anchor embedded.
func (a *AnchorSet) CategoriesUsable() bool {
	if a == nil {
		return false
	}
	for _, cat := range categoryOrder {
		if a.Categories[cat] == nil {
			return false
		}
	}
	return true
}

// buildAnchors embeds every anchor text in one batch call.
func (c *Classifier) buildAnchors(ctx context.Context) (*AnchorSet, error) {
	anchors := c.table.Anchors

	texts := make([]string, 0, 2+len(categoryOrder))
	texts = append(texts, anchors.Praise, anchors.Complaint)
	for _, cat := range categoryOrder {
		texts = append(texts, anchors.Categories[cat])
	}

	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	set := &AnchorSet{
		Praise:     vectors[0],
		Complaint:  vectors[1],
		Categories: make(map[domain.Category][]float64, len(categoryOrder)),
	}
	for i, cat := range categoryOrder {
		set.Categories[cat] = vectors[2+i]
	}

	if !set.PraiseUsable() && !set.CategoriesUsable() {
		return nil, ErrAnchorsUnavailable
	}

	c.logger.Info("anchor embeddings initialized",
		logger.Bool("praise_usable", set.PraiseUsable()),
		logger.Bool("categories_usable", set.CategoriesUsable()),
	)
	return set, nil
}

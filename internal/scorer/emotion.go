package scorer

import (
	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/rules"
)

// emotionOrder is the deterministic tie-break order. Earlier labels win
// when match counts are equal.
var emotionOrder = []domain.Emotion{
	domain.EmotionFrustration,
	domain.EmotionAnxiety,
	domain.EmotionDisappointment,
	domain.EmotionConfusion,
	domain.EmotionHope,
}

// EmotionLabeler assigns the dominant emotion label from a per-label
// keyword lexicon. Pure and deterministic; no match yields neutral.
type EmotionLabeler struct {
	matchers map[domain.Emotion]*tierMatcher
}

// NewEmotionLabeler builds per-label matchers from the rules table.
func NewEmotionLabeler(table *rules.Compiled) *EmotionLabeler {
	matchers := make(map[domain.Emotion]*tierMatcher, len(table.Emotions))
	for label, words := range table.Emotions {
		matchers[domain.Emotion(label)] = newTierMatcher(words)
	}
	return &EmotionLabeler{matchers: matchers}
}

// Label returns the emotion with the most distinct keyword matches.
func (e *EmotionLabeler) Label(text string) domain.Emotion {
	normalized := normalizeText(text)

	best := domain.EmotionNeutral
	bestCount := 0
	for _, label := range emotionOrder {
		m, ok := e.matchers[label]
		if !ok {
			continue
		}
		if count := len(m.matches(normalized)); count > bestCount {
			best = label
			bestCount = count
		}
	}
	return best
}

package semantic

import "math"

// cosineSimilarity returns the cosine of the angle between two vectors.
// A dimension mismatch is a precondition violation on the caller's side,
// reported as ok=false so the item is skipped rather than guessed at.
func cosineSimilarity(a, b []float64) (sim float64, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

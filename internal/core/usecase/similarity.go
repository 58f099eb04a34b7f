package usecase

import (
	"math"
	"sort"

	"github.com/resumatch/resumatch/internal/core/domain"
)

// CosineSimilarity measures the angle between two vectors, independent of
// magnitude. Zero-length or mismatched vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopMatches ranks candidates against the query by cosine similarity and
// returns at most topN records sorted by score descending, index ascending
// on ties. Candidates below minSimilarity are dropped first; when none
// clears the floor every candidate becomes eligible again; callers that
// care must re-check the returned scores.
func TopMatches(query []float32, candidates [][]float32, topN int, minSimilarity float64) []domain.MatchRecord {
	if len(candidates) == 0 {
		return nil
	}

	scores := make([]float64, len(candidates))
	for i, candidate := range candidates {
		scores[i] = CosineSimilarity(query, candidate)
	}

	eligible := make([]domain.MatchRecord, 0, len(candidates))
	for i, score := range scores {
		if score >= minSimilarity {
			eligible = append(eligible, domain.MatchRecord{Index: i, Score: score})
		}
	}
	if len(eligible) == 0 {
		for i, score := range scores {
			eligible = append(eligible, domain.MatchRecord{Index: i, Score: score})
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Score != eligible[j].Score {
			return eligible[i].Score > eligible[j].Score
		}
		return eligible[i].Index < eligible[j].Index
	})

	if topN > 0 && topN < len(eligible) {
		eligible = eligible[:topN]
	}
	return eligible
}

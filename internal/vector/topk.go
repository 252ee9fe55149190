package vector

import (
	"container/heap"
	"fmt"
)

// SimilarityResult pairs a candidate's position in the input slice with its
// cosine similarity to the query.
type SimilarityResult struct {
	Index int
	Score float64
}

// FindMostSimilar scores every candidate against the query and returns the
// topK best matches, highest similarity first. Equal scores keep the earlier
// candidate ahead, so repeated calls over the same input are deterministic.
// topK larger than the candidate count returns all candidates sorted; topK <= 0
// or no candidates returns an empty result. Any invalid vector aborts the whole
// call with no partial results.
//
// A bounded min-heap keeps the cost at O(n log k) instead of sorting all n
// scores, which matters once the corpus outgrows the query's k.
func FindMostSimilar(query []float64, candidates [][]float64, topK int) ([]SimilarityResult, error) {
	if topK <= 0 || len(candidates) == 0 {
		return nil, nil
	}
	if topK > len(candidates) {
		topK = len(candidates)
	}
	h := make(resultHeap, 0, topK)
	for i, candidate := range candidates {
		score, err := CosineSimilarity(query, candidate)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		r := SimilarityResult{Index: i, Score: score}
		if h.Len() < topK {
			heap.Push(&h, r)
		} else if better(r, h[0]) {
			h[0] = r
			heap.Fix(&h, 0)
		}
	}
	// The weakest kept result sits at the root, so popping fills the output
	// back to front.
	out := make([]SimilarityResult, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(SimilarityResult)
	}
	return out, nil
}

// better reports whether a outranks b: higher score wins, equal scores keep
// the lower candidate index.
func better(a, b SimilarityResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// resultHeap is a min-heap by rank, so the root is always the result to evict.
type resultHeap []SimilarityResult

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *resultHeap) Push(x any) {
	*h = append(*h, x.(SimilarityResult))
}

func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

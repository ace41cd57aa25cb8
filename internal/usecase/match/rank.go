package match

import (
	"container/heap"
	"sort"

	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
)

// Rank returns the k best rows by score, highest first. Ties keep corpus row
// order, matching a stable descending sort. Rows below minScore are dropped.
func Rank(scores []float64, k int, minScore float64) []dommatch.Hit {
	if k <= 0 || len(scores) == 0 {
		return nil
	}
	if k > len(scores) {
		k = len(scores)
	}

	h := make(worstFirst, 0, k)
	for row, s := range scores {
		if s < minScore {
			continue
		}
		hit := dommatch.Hit{Row: row, Score: s}
		if len(h) < k {
			heap.Push(&h, hit)
			continue
		}
		if better(hit, h[0]) {
			h[0] = hit
			heap.Fix(&h, 0)
		}
	}

	out := []dommatch.Hit(h)
	sort.Slice(out, func(i, j int) bool { return better(out[i], out[j]) })
	return out
}

// better orders by score descending, then row ascending.
func better(a, b dommatch.Hit) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Row < b.Row
}

// worstFirst is a heap whose root is the weakest kept hit.
type worstFirst []dommatch.Hit

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return better(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) { *h = append(*h, x.(dommatch.Hit)) }

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

package fusion

import (
	"sort"

	"github.com/codelensd/engine/pkg/types"
)

// WeightedList is one backend's ranked results plus the weight its
// contributions carry in the fused score.
type WeightedList struct {
	Results []types.CodeChunk
	Weight  float64
}

// Fuse merges N weighted, ranked result lists via reciprocal rank fusion
// and returns the top maxResults chunks sorted by descending fused score.
func Fuse(lists []WeightedList, k float64, maxResults int) []types.CodeChunk {
	scores := make(map[string]float64)
	chunks := make(map[string]types.CodeChunk)

	for _, list := range lists {
		if list.Weight == 0 {
			continue
		}
		for rank, chunk := range list.Results {
			key := chunk.Key()
			contribution := list.Weight / (k + float64(rank) + 1.0)
			scores[key] += contribution
			if _, ok := chunks[key]; !ok {
				chunks[key] = chunk
			}
		}
	}

	fused := make([]types.CodeChunk, 0, len(scores))
	for key, score := range scores {
		chunk := chunks[key]
		chunk.RelevanceScore = score
		fused = append(fused, chunk)
	}

	sort.Slice(fused, func(i, j int) bool {
		return fused[i].RelevanceScore > fused[j].RelevanceScore
	})

	if maxResults > 0 && len(fused) > maxResults {
		fused = fused[:maxResults]
	}

	return fused
}

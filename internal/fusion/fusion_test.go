package fusion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelensd/engine/internal/fusion"
	"github.com/codelensd/engine/pkg/types"
)

func chunk(path string, start, end int) types.CodeChunk {
	return types.CodeChunk{FilePath: path, StartLine: start, EndLine: end, Content: "x"}
}

func TestFuseSumsContributionsAcrossLists(t *testing.T) {
	shared := chunk("a.go", 1, 5)

	lists := []fusion.WeightedList{
		{Results: []types.CodeChunk{shared, chunk("b.go", 1, 3)}, Weight: 0.5},
		{Results: []types.CodeChunk{shared}, Weight: 0.5},
	}

	fused := fusion.Fuse(lists, 60, 10)

	require := func(cond bool, msg string) {
		if !cond {
			t.Fatal(msg)
		}
	}
	require(len(fused) == 2, "expected 2 deduplicated chunks")

	// shared chunk appears in both lists (rank 0 each time) so its score is
	// the sum of two 0.5/61 terms; b.go appears once, at rank 1 (0.5/62).
	var sharedScore, otherScore float64
	for _, c := range fused {
		if c.FilePath == "a.go" {
			sharedScore = c.RelevanceScore
		} else {
			otherScore = c.RelevanceScore
		}
	}
	assert.InDelta(t, 0.5/61.0+0.5/61.0, sharedScore, 1e-9)
	assert.InDelta(t, 0.5/62.0, otherScore, 1e-9)
}

func TestFuseOrdersByDescendingScore(t *testing.T) {
	lists := []fusion.WeightedList{
		{Results: []types.CodeChunk{chunk("a.go", 1, 1), chunk("b.go", 1, 1), chunk("c.go", 1, 1)}, Weight: 1.0},
	}
	fused := fusion.Fuse(lists, 60, 10)
	for i := 1; i < len(fused); i++ {
		assert.GreaterOrEqual(t, fused[i-1].RelevanceScore, fused[i].RelevanceScore)
	}
}

func TestFuseRespectsMaxResults(t *testing.T) {
	lists := []fusion.WeightedList{
		{Results: []types.CodeChunk{chunk("a.go", 1, 1), chunk("b.go", 1, 1), chunk("c.go", 1, 1)}, Weight: 1.0},
	}
	fused := fusion.Fuse(lists, 60, 2)
	assert.Len(t, fused, 2)
}

func TestFuseIgnoresZeroWeightLists(t *testing.T) {
	lists := []fusion.WeightedList{
		{Results: []types.CodeChunk{chunk("a.go", 1, 1)}, Weight: 0},
		{Results: []types.CodeChunk{chunk("b.go", 1, 1)}, Weight: 1.0},
	}
	fused := fusion.Fuse(lists, 60, 10)
	assert.Len(t, fused, 1)
	assert.Equal(t, "b.go", fused[0].FilePath)
}

func TestFuseEmptyInput(t *testing.T) {
	fused := fusion.Fuse(nil, 60, 10)
	assert.Empty(t, fused)
}

func TestFuseSingleListPreservesOrder(t *testing.T) {
	lists := []fusion.WeightedList{
		{Results: []types.CodeChunk{chunk("a.go", 1, 1), chunk("b.go", 1, 1), chunk("c.go", 1, 1)}, Weight: 0.7},
	}
	fused := fusion.Fuse(lists, 60, 10)
	require.Len(t, fused, 3)
	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, []string{fused[0].FilePath, fused[1].FilePath, fused[2].FilePath})

	want := 0.7 / 61.0
	assert.InDelta(t, want, fused[0].RelevanceScore, 1e-9)
}

func TestFuseThreeListsExactRRFScore(t *testing.T) {
	shared := chunk("shared.go", 10, 20)

	fillerList := func(size, sharedAt int) []types.CodeChunk {
		out := make([]types.CodeChunk, size)
		for i := range out {
			out[i] = chunk("filler.go", i+1, i+1)
		}
		out[sharedAt] = shared
		return out
	}

	lists := []fusion.WeightedList{
		{Results: fillerList(100, 0), Weight: 0.2}, // shared at rank 1 (index 0)
		{Results: fillerList(100, 2), Weight: 0.4}, // shared at rank 3 (index 2)
		{Results: fillerList(100, 4), Weight: 0.4}, // shared at rank 5 (index 4)
	}

	fused := fusion.Fuse(lists, 60, 300)

	var sharedScore float64
	found := false
	for _, c := range fused {
		if c.FilePath == "shared.go" {
			sharedScore = c.RelevanceScore
			found = true
		}
	}
	require.True(t, found, "shared chunk must appear in fused output")

	want := 0.2/61.0 + 0.4/63.0 + 0.4/65.0
	assert.InDelta(t, want, sharedScore, 1e-9)
}

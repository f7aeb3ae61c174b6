// Package fusion combines ranked result lists from the three retrieval
// backends into one ranked list using weighted reciprocal rank fusion
// (RRF): score(c) = sum_i weight_i / (k + rank_i(c) + 1), ranks 0-based,
// chunks deduplicated by (file_path, start_line, end_line) with per-list
// contributions summed rather than the chunk appearing twice.
package fusion

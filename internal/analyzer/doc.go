// Package analyzer classifies a query string into one of five types and
// picks the HybridConfig (per-backend fusion weights) appropriate to that
// type, so that a single-word symbol lookup and a "how does X work"
// question are not fused with the same weighting.
package analyzer

// Package fetch carries the pieces every fetcher composes: cache key
// normalization and the governed, retried upstream request pipeline.
package fetch

import "strings"

// NormalizeQuery lower-cases, trims and collapses inner whitespace so that
// equivalent queries collide on the same cache entry.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// CacheKey builds the deterministic cache key for one lookup kind.
func CacheKey(kind, query string) string {
	return kind + ":" + NormalizeQuery(query)
}

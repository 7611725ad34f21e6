// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package search

import (
	"sort"
	"strings"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/catalog"
	"golang.org/x/text/cases"
)

// Field weights. All matching fields contribute; an exact name match also
// contains the query and therefore scores WeightExactName+WeightNameContains.
const (
	WeightExactName    = 100
	WeightNameContains = 75
	WeightTitle        = 50
	WeightDescription  = 25
	WeightTag          = 15
	WeightCategory     = 10
)

// DefaultCacheSize is the number of distinct queries cached by NewEngine.
const DefaultCacheSize = 128

// Source is the catalog view the engine ranks over.
// [*catalog.Catalog] satisfies it.
type Source interface {
	All() []*catalog.Resource
	Describe(name string) *catalog.ManifestEntry
	Populated() bool
}

// Result is one ranked match.
type Result struct {
	Name           string                 `json:"name"`
	Resource       *catalog.Resource      `json:"-"`
	Metadata       *catalog.ManifestEntry `json:"metadata,omitempty"`
	RelevanceScore int                    `json:"relevanceScore"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithCacheSize bounds the result cache. Zero or less disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.cache = NewCache(n) }
}

// Engine ranks catalog entries against free-text queries.
type Engine struct {
	source Source
	cache  *Cache
}

// NewEngine creates an engine over source with a DefaultCacheSize cache.
func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		cache:  NewCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search returns the entries matching query case-insensitively, ordered by
// descending relevance with ties kept in catalog order. Entries scoring zero
// are excluded and an empty query matches nothing.
//
// Results are cached only once the source is populated, since the catalog
// cannot change afterwards.
func (e *Engine) Search(query string) []Result {
	if strings.TrimSpace(query) == "" {
		return []Result{}
	}

	folded := cases.Fold().String(query)
	cacheable := e.source.Populated()
	if cacheable {
		if results, ok := e.cache.Get(folded); ok {
			return results
		}
	}

	results := []Result{}
	for _, r := range e.source.All() {
		meta := e.source.Describe(r.Name)
		score := Score(folded, r.Name, meta)
		if score == 0 {
			continue
		}
		results = append(results, Result{
			Name:           r.Name,
			Resource:       r,
			Metadata:       meta,
			RelevanceScore: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	if cacheable {
		e.cache.Set(folded, results)
	}
	return results
}

// Score computes the additive relevance of one entry. query must already be
// case folded; meta may be nil, in which case only the name contributes.
func Score(query, name string, meta *catalog.ManifestEntry) int {
	if query == "" {
		return 0
	}

	// A Caser keeps state and must not be shared between goroutines.
	fold := cases.Fold()
	contains := func(field string) bool {
		return field != "" && strings.Contains(fold.String(field), query)
	}

	score := 0
	foldedName := fold.String(name)
	if foldedName == query {
		score += WeightExactName
	}
	if strings.Contains(foldedName, query) {
		score += WeightNameContains
	}
	if meta == nil {
		return score
	}

	if contains(meta.Title) {
		score += WeightTitle
	}
	if contains(meta.Description) {
		score += WeightDescription
	}
	for _, tag := range meta.Tags {
		if contains(tag) {
			score += WeightTag
			break
		}
	}
	if contains(meta.Category) {
		score += WeightCategory
	}
	return score
}

// CacheStats reports the result cache counters.
func (e *Engine) CacheStats() CacheStats { return e.cache.Stats() }

// Cache exposes the result cache; it is nil when caching is disabled.
func (e *Engine) Cache() *Cache { return e.cache }

// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package composer

import (
	"fmt"
	"net/url"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/catalog"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/search"
)

// Catalog is the read-only view the composer formats from.
// [*catalog.Catalog] satisfies it.
type Catalog interface {
	Get(name string) (*catalog.Resource, error)
	All() []*catalog.Resource
	Names() []string
	Has(name string) bool
	Warnings() []*catalog.PartialLoadWarning

	Describe(name string) *catalog.ManifestEntry
	Entries() []catalog.ManifestEntry
	Categories() []string
	ByCategory(category string) []string
	ByTag(tag string) []string
	ByComplexity(level catalog.Complexity) []string

	Validate(name string) catalog.DependencyReport
}

// Summary is the compact description of one pattern used in listings.
type Summary struct {
	Name           string             `json:"name"`
	URI            string             `json:"uri"`
	Title          string             `json:"title,omitempty"`
	Description    string             `json:"description,omitempty"`
	Category       string             `json:"category,omitempty"`
	Complexity     catalog.Complexity `json:"complexity,omitempty"`
	Tags           []string           `json:"tags"`
	Available      bool               `json:"available"`
	RelevanceScore int                `json:"relevanceScore,omitempty"`
}

// Contents is a single entry of a read-resource response.
type Contents struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

// Composer builds the JSON envelopes returned by tools and resource reads.
// It has no side effects; every method reads the catalog and formats.
type Composer struct {
	scheme string
	cat    Catalog
}

// New returns a composer producing URIs under scheme.
func New(scheme string, cat Catalog) *Composer {
	return &Composer{scheme: scheme, cat: cat}
}

// URI returns the resource identifier for name. The name is path-escaped
// so that every stored name reads back through the same identifier.
func (c *Composer) URI(name string) string {
	return fmt.Sprintf("%s://resource/%s", c.scheme, url.PathEscape(name))
}

// Summarize describes name from its manifest entry and load state.
// Names without a manifest entry get empty annotations.
func (c *Composer) Summarize(name string) Summary {
	s := Summary{
		Name:      name,
		URI:       c.URI(name),
		Tags:      []string{},
		Available: c.cat.Has(name),
	}
	if e := c.cat.Describe(name); e != nil {
		s.Title = e.Title
		s.Description = e.Description
		s.Category = e.Category
		s.Complexity = e.Complexity
		s.Tags = e.Tags
	}
	return s
}

func (c *Composer) summarizeAll(names []string) []Summary {
	out := make([]Summary, 0, len(names))
	for _, n := range names {
		out = append(out, c.Summarize(n))
	}
	return out
}

func encode(v any) (string, error) {
	data, err := gc.EncodeJSON(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode response: %w", err)
	}
	return string(data), nil
}

// ForContents wraps a resource payload for a read-resource response.
// The payload is passed through unmodified.
func (c *Composer) ForContents(uri string, r *catalog.Resource) Contents {
	return Contents{URI: uri, MIMEType: r.MIMEType, Text: r.Text()}
}

type resourceEnvelope struct {
	Name         string                   `json:"name"`
	URI          string                   `json:"uri"`
	MIMEType     string                   `json:"mimeType"`
	Group        string                   `json:"group"`
	Digest       string                   `json:"digest"`
	Size         int                      `json:"size"`
	Metadata     *catalog.ManifestEntry   `json:"metadata,omitempty"`
	Dependencies catalog.DependencyReport `json:"dependencies"`
	Content      string                   `json:"content"`
}

// ForResource formats a single pattern with its metadata and payload.
// An unknown name yields the store's *catalog.NotFoundError.
func (c *Composer) ForResource(name string) (string, error) {
	r, err := c.cat.Get(name)
	if err != nil {
		return "", err
	}
	return encode(resourceEnvelope{
		Name:         r.Name,
		URI:          c.URI(r.Name),
		MIMEType:     r.MIMEType,
		Group:        r.Group,
		Digest:       r.Digest,
		Size:         r.Size(),
		Metadata:     c.cat.Describe(r.Name),
		Dependencies: c.cat.Validate(r.Name),
		Content:      r.Text(),
	})
}

type searchEnvelope struct {
	Query        string    `json:"query"`
	TotalResults int       `json:"totalResults"`
	Returned     int       `json:"returned"`
	Results      []Summary `json:"results"`
}

// ForSearch formats ranked results, keeping at most limit of them.
// A limit of zero or less keeps every result.
func (c *Composer) ForSearch(query string, results []search.Result, limit int) (string, error) {
	kept := results
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	summaries := make([]Summary, 0, len(kept))
	for _, r := range kept {
		s := c.Summarize(r.Name)
		s.RelevanceScore = r.RelevanceScore
		summaries = append(summaries, s)
	}

	return encode(searchEnvelope{
		Query:        query,
		TotalResults: len(results),
		Returned:     len(summaries),
		Results:      summaries,
	})
}

type listingEnvelope struct {
	Category            string    `json:"category,omitempty"`
	Tag                 string    `json:"tag,omitempty"`
	Complexity          string    `json:"complexity,omitempty"`
	Count               int       `json:"count"`
	Patterns            []Summary `json:"patterns"`
	AvailableCategories []string  `json:"availableCategories,omitempty"`
}

func (c *Composer) forListing(env listingEnvelope, names []string) (string, error) {
	env.Patterns = c.summarizeAll(names)
	env.Count = len(env.Patterns)
	return encode(env)
}

// ForCategory lists the patterns in category. The known categories are
// always included so an empty listing can be corrected.
func (c *Composer) ForCategory(category string) (string, error) {
	return c.forListing(listingEnvelope{
		Category:            category,
		AvailableCategories: c.cat.Categories(),
	}, c.cat.ByCategory(category))
}

// ForTag lists the patterns carrying tag.
func (c *Composer) ForTag(tag string) (string, error) {
	return c.forListing(listingEnvelope{Tag: tag}, c.cat.ByTag(tag))
}

// ForComplexity lists the patterns declared at level.
func (c *Composer) ForComplexity(level catalog.Complexity) (string, error) {
	return c.forListing(listingEnvelope{Complexity: string(level)}, c.cat.ByComplexity(level))
}

type categoryCount struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Patterns []string `json:"patterns"`
}

type overviewEnvelope struct {
	TotalResources  int                        `json:"totalResources"`
	ManifestEntries int                        `json:"manifestEntries"`
	Categories      []categoryCount            `json:"categories"`
	Complexity      map[catalog.Complexity]int `json:"complexity"`
	Orphaned        []string                   `json:"orphaned"`
	Uncatalogued    []string                   `json:"uncatalogued"`
	LoadWarnings    []string                   `json:"loadWarnings"`
	Patterns        []Summary                  `json:"patterns"`
}

// ForOverview aggregates the whole catalog: counts per category and
// complexity, orphaned manifest entries, resources without metadata and
// load warnings.
func (c *Composer) ForOverview() (string, error) {
	names := c.cat.Names()
	entries := c.cat.Entries()

	env := overviewEnvelope{
		TotalResources:  len(names),
		ManifestEntries: len(entries),
		Categories:      []categoryCount{},
		Complexity:      make(map[catalog.Complexity]int, len(catalog.Complexities)),
		Orphaned:        []string{},
		Uncatalogued:    []string{},
		LoadWarnings:    []string{},
		Patterns:        c.summarizeAll(names),
	}

	for _, category := range c.cat.Categories() {
		members := c.cat.ByCategory(category)
		env.Categories = append(env.Categories, categoryCount{
			Name:     category,
			Count:    len(members),
			Patterns: members,
		})
	}
	for _, level := range catalog.Complexities {
		env.Complexity[level] = len(c.cat.ByComplexity(level))
	}
	for _, e := range entries {
		if !c.cat.Has(e.Name) {
			env.Orphaned = append(env.Orphaned, e.Name)
		}
	}
	for _, n := range names {
		if c.cat.Describe(n) == nil {
			env.Uncatalogued = append(env.Uncatalogued, n)
		}
	}
	for _, w := range c.cat.Warnings() {
		env.LoadWarnings = append(env.LoadWarnings, w.Error())
	}

	return encode(env)
}

type bundledPattern struct {
	Summary
	Role     string `json:"role"`
	MIMEType string `json:"mimeType"`
	Content  string `json:"content"`
}

type bundleEnvelope struct {
	Name                string           `json:"name"`
	IncludeDependencies bool             `json:"includeDependencies"`
	Complete            bool             `json:"complete"`
	Patterns            []bundledPattern `json:"patterns"`
	Missing             []string         `json:"missing"`
}

// ForBundle assembles name and, optionally, its transitive dependencies in
// depth-first declaration order. Missing dependencies are listed rather than
// failing the bundle; only an unknown primary pattern is an error.
func (c *Composer) ForBundle(name string, includeDependencies bool) (string, error) {
	primary, err := c.cat.Get(name)
	if err != nil {
		return "", err
	}

	env := bundleEnvelope{
		Name:                name,
		IncludeDependencies: includeDependencies,
		Patterns:            []bundledPattern{c.bundled(primary, "primary")},
		Missing:             []string{},
	}

	if includeDependencies {
		visited := map[string]bool{name: true}
		var walk func(string)
		walk = func(n string) {
			e := c.cat.Describe(n)
			if e == nil {
				return
			}
			for _, dep := range e.Dependencies {
				if visited[dep] {
					continue
				}
				visited[dep] = true
				r, err := c.cat.Get(dep)
				if err != nil {
					env.Missing = append(env.Missing, dep)
					continue
				}
				env.Patterns = append(env.Patterns, c.bundled(r, "dependency"))
				walk(dep)
			}
		}
		walk(name)
	}

	env.Complete = len(env.Missing) == 0
	return encode(env)
}

func (c *Composer) bundled(r *catalog.Resource, role string) bundledPattern {
	return bundledPattern{
		Summary:  c.Summarize(r.Name),
		Role:     role,
		MIMEType: r.MIMEType,
		Content:  r.Text(),
	}
}

type dependencyEnvelope struct {
	catalog.DependencyReport
	Available    bool      `json:"available"`
	Described    bool      `json:"described"`
	Dependencies []Summary `json:"dependencyDetails"`
}

// ForDependencies formats the advisory dependency report for name.
// It never fails for unknown names; the report says so instead.
func (c *Composer) ForDependencies(name string) (string, error) {
	report := c.cat.Validate(name)
	return encode(dependencyEnvelope{
		DependencyReport: report,
		Available:        c.cat.Has(name),
		Described:        c.cat.Describe(name) != nil,
		Dependencies:     c.summarizeAll(report.Declared),
	})
}

// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// Complexity is the declared difficulty level of a pattern.
type Complexity string

// Supported complexity levels.
const (
	ComplexityBasic        Complexity = "basic"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
	ComplexityEnterprise   Complexity = "enterprise"
	ComplexityFoundational Complexity = "foundational"
)

// Complexities lists every valid level in ascending order.
var Complexities = []Complexity{
	ComplexityFoundational,
	ComplexityBasic,
	ComplexityIntermediate,
	ComplexityAdvanced,
	ComplexityEnterprise,
}

// Valid reports whether c is one of the supported levels.
func (c Complexity) Valid() bool {
	for _, known := range Complexities {
		if c == known {
			return true
		}
	}
	return false
}

// ParseComplexity maps s case-insensitively onto a Complexity.
func ParseComplexity(s string) (Complexity, error) {
	c := Complexity(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown complexity %q (expected one of %s)", s, joinComplexities())
	}
	return c, nil
}

func joinComplexities() string {
	parts := make([]string, len(Complexities))
	for i, c := range Complexities {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

// ManifestEntry is the static metadata of one pattern.
type ManifestEntry struct {
	Name         string     `yaml:"name" json:"name"`
	Title        string     `yaml:"title" json:"title"`
	Description  string     `yaml:"description" json:"description"`
	Category     string     `yaml:"category" json:"category"`
	Tags         []string   `yaml:"tags" json:"tags"`
	Complexity   Complexity `yaml:"complexity" json:"complexity"`
	Dependencies []string   `yaml:"dependencies" json:"dependencies"`
}

// HasTag reports whether the entry carries tag, ignoring case.
func (e *ManifestEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (e ManifestEntry) clone() ManifestEntry {
	e.Tags = append([]string{}, e.Tags...)
	e.Dependencies = append([]string{}, e.Dependencies...)
	return e
}

type manifestFile struct {
	Patterns []ManifestEntry `yaml:"patterns"`
}

// Manifest is the read-only metadata table. All lookups preserve manifest
// order and never mutate the table.
type Manifest struct {
	entries []ManifestEntry
	index   map[string]int
}

// NewManifest validates entries and builds the index.
// Names must be non-empty and unique, and a set complexity must be a known
// level. Tags are treated as a set: case-insensitive duplicates are dropped.
func NewManifest(entries []ManifestEntry) (*Manifest, error) {
	m := &Manifest{
		entries: make([]ManifestEntry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("manifest entry %d has no name", i)
		}
		if _, dup := m.index[e.Name]; dup {
			return nil, fmt.Errorf("manifest entry %q declared twice", e.Name)
		}
		if e.Complexity != "" {
			c, err := ParseComplexity(string(e.Complexity))
			if err != nil {
				return nil, fmt.Errorf("manifest entry %q: %w", e.Name, err)
			}
			e.Complexity = c
		}
		e = e.clone()
		e.Tags = dedupFold(e.Tags)
		m.index[e.Name] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m, nil
}

// ParseManifest decodes a YAML document with a top-level "patterns" list.
func ParseManifest(data []byte) (*Manifest, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return NewManifest(file.Patterns)
}

// LoadManifest reads and parses the manifest at name in fsys.
// A missing file yields an empty manifest.
func LoadManifest(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return NewManifest(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(data)
}

func dedupFold(tags []string) []string {
	out := tags[:0]
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Describe returns a copy of the entry for name, or nil.
func (m *Manifest) Describe(name string) *ManifestEntry {
	i, ok := m.index[name]
	if !ok {
		return nil
	}
	e := m.entries[i].clone()
	return &e
}

// ByCategory returns the names whose category equals category, ignoring case.
func (m *Manifest) ByCategory(category string) []string {
	return m.filter(func(e *ManifestEntry) bool { return strings.EqualFold(e.Category, category) })
}

// ByTag returns the names carrying tag, ignoring case.
func (m *Manifest) ByTag(tag string) []string {
	return m.filter(func(e *ManifestEntry) bool { return e.HasTag(tag) })
}

// ByComplexity returns the names declared at level.
func (m *Manifest) ByComplexity(level Complexity) []string {
	return m.filter(func(e *ManifestEntry) bool { return e.Complexity == level })
}

func (m *Manifest) filter(keep func(*ManifestEntry) bool) []string {
	names := []string{}
	for i := range m.entries {
		if keep(&m.entries[i]) {
			names = append(names, m.entries[i].Name)
		}
	}
	return names
}

// Categories returns the distinct categories in manifest order.
func (m *Manifest) Categories() []string {
	categories := []string{}
	seen := make(map[string]struct{})
	for _, e := range m.entries {
		if e.Category == "" {
			continue
		}
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		categories = append(categories, e.Category)
	}
	return categories
}

// Entries returns a copy of every entry in manifest order.
func (m *Manifest) Entries() []ManifestEntry {
	out := make([]ManifestEntry, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.clone()
	}
	return out
}

// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifestYAML = `
patterns:
  - name: wizard
    title: Multi-step Wizard
    description: Guided forms split into steps
    category: forms
    tags: [ux, Forms, validation, UX]
    complexity: Intermediate
    dependencies: [inline-validation]
  - name: inline-validation
    title: Inline Validation
    description: Field level feedback
    category: forms
    tags: [validation]
    complexity: basic
  - name: approval-chain
    title: Approval Chain
    description: Sequential approvals with escalation
    category: workflows
    tags: [erp]
    complexity: enterprise
    dependencies: [wizard, audit-log]
`

func mustManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := ParseManifest([]byte(testManifestYAML))
	require.NoError(t, err)
	return m
}

func TestParseManifest(t *testing.T) {
	m := mustManifest(t)

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "wizard", entries[0].Name)
	assert.Equal(t, ComplexityIntermediate, entries[0].Complexity)
	// Tags are a set; case-insensitive duplicates collapse to the first spelling.
	assert.Equal(t, []string{"ux", "Forms", "validation"}, entries[0].Tags)
	assert.Equal(t, []string{"inline-validation"}, entries[0].Dependencies)
}

func TestNewManifestValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []ManifestEntry
		errMsg  string
	}{
		{
			name:    "missing name",
			entries: []ManifestEntry{{Title: "x"}},
			errMsg:  "has no name",
		},
		{
			name:    "duplicate name",
			entries: []ManifestEntry{{Name: "a"}, {Name: "a"}},
			errMsg:  `"a" declared twice`,
		},
		{
			name:    "unknown complexity",
			entries: []ManifestEntry{{Name: "a", Complexity: "galaxy-brain"}},
			errMsg:  "unknown complexity",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewManifest(test.entries)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.errMsg)
		})
	}
}

func TestManifestFilters(t *testing.T) {
	m := mustManifest(t)

	tests := []struct {
		name     string
		got      []string
		expected []string
	}{
		{"category", m.ByCategory("forms"), []string{"wizard", "inline-validation"}},
		{"category ignores case", m.ByCategory("WORKFLOWS"), []string{"approval-chain"}},
		{"category unknown", m.ByCategory("nope"), []string{}},
		{"tag", m.ByTag("validation"), []string{"wizard", "inline-validation"}},
		{"tag ignores case", m.ByTag("ERP"), []string{"approval-chain"}},
		{"complexity", m.ByComplexity(ComplexityBasic), []string{"inline-validation"}},
		{"complexity none", m.ByComplexity(ComplexityFoundational), []string{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.got)
		})
	}

	assert.Equal(t, []string{"forms", "workflows"}, m.Categories())
}

func TestManifestDescribeReturnsCopy(t *testing.T) {
	m := mustManifest(t)

	assert.Nil(t, m.Describe("missing"))

	e := m.Describe("wizard")
	require.NotNil(t, e)
	e.Tags[0] = "mutated"
	e.Title = "mutated"

	again := m.Describe("wizard")
	assert.Equal(t, "ux", again.Tags[0])
	assert.Equal(t, "Multi-step Wizard", again.Title)
}

func TestLoadManifest(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.yaml": {Data: []byte(testManifestYAML)},
		"broken.yaml":   {Data: []byte("patterns: [")},
	}

	m, err := LoadManifest(fsys, "manifest.yaml")
	require.NoError(t, err)
	assert.Len(t, m.Entries(), 3)

	empty, err := LoadManifest(fsys, "absent.yaml")
	require.NoError(t, err)
	assert.Empty(t, empty.Entries())

	_, err = LoadManifest(fsys, "broken.yaml")
	assert.ErrorContains(t, err, "failed to parse manifest")
}

func TestParseComplexity(t *testing.T) {
	c, err := ParseComplexity("  ADVANCED ")
	require.NoError(t, err)
	assert.Equal(t, ComplexityAdvanced, c)

	_, err = ParseComplexity("trivial")
	assert.ErrorContains(t, err, "foundational, basic, intermediate, advanced, enterprise")
}

// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package templates

import (
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/catalog"
	"gopkg.in/yaml.v3"
)

func TestMagicEmbed_ReadFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{
			name:     "read instructions template",
			filename: "instructions.md",
			wantErr:  false,
		},
		{
			name:     "read CLI help template",
			filename: "cli_help.md",
			wantErr:  false,
		},
		{
			name:     "read catalog manifest",
			filename: "catalog/manifest.yaml",
			wantErr:  false,
		},
		{
			name:     "read non-existent file",
			filename: "non-existent.md",
			wantErr:  true,
		},
		{
			name:     "read file with invalid path",
			filename: "../invalid.md",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MagicEmbed.ReadFile(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Errorf("MagicEmbed.ReadFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(data) == 0 {
				t.Error("MagicEmbed.ReadFile() returned empty data for existing file")
			}
		})
	}
}

func TestMagicEmbed_ReadDir(t *testing.T) {
	entries, err := MagicEmbed.ReadDir(".")
	if err != nil {
		t.Fatalf("MagicEmbed.ReadDir() error = %v", err)
	}

	expected := map[string]bool{
		"instructions.md": false,
		"cli_help.md":     false,
		CatalogDir:        false,
	}
	for _, entry := range entries {
		if _, ok := expected[entry.Name()]; ok {
			expected[entry.Name()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("Expected entry %s not found in directory listing", name)
		}
	}

	if _, err := MagicEmbed.ReadDir("non-existent"); err == nil {
		t.Error("MagicEmbed.ReadDir() expected error for non-existent directory")
	}
}

func TestMagicEmbed_Open(t *testing.T) {
	file, err := MagicEmbed.Open("instructions.md")
	if err != nil {
		t.Fatalf("MagicEmbed.Open() error = %v", err)
	}
	defer file.Close()

	data := make([]byte, 64)
	n, err := file.Read(data)
	if err != nil && err != io.EOF {
		t.Errorf("Failed to read from opened file: %v", err)
	}
	if n == 0 {
		t.Error("Opened file appears to be empty")
	}

	info, err := file.Stat()
	if err != nil {
		t.Fatalf("Failed to get file info: %v", err)
	}
	if info.IsDir() {
		t.Error("Opened file should not be a directory")
	}
}

func TestMagicEmbed_InterfaceCompliance(t *testing.T) {
	var _ EmbedFS = MagicEmbed
	var _ EmbedFS = &embedFS{}
	var _ fs.FS = MagicEmbed
}

func TestCatalogLayout(t *testing.T) {
	fsys, err := Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}

	groups, err := catalog.FSGroups(fsys)
	if err != nil {
		t.Fatalf("FSGroups() error = %v", err)
	}

	var ids []string
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	want := "forms,frontend,infrastructure,workflows"
	if got := strings.Join(ids, ","); got != want {
		t.Errorf("groups = %s, want %s", got, want)
	}
}

func TestCatalogManifestResolves(t *testing.T) {
	fsys, err := Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}

	raw, err := fs.ReadFile(fsys, catalog.DefaultManifestPath)
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("manifest is not valid YAML: %v", err)
	}

	cat, err := catalog.Open(catalog.Source{FS: fsys})
	if err != nil {
		t.Fatalf("catalog.Open() error = %v", err)
	}
	cat.Populate(t.Context())

	if w := cat.Warnings(); len(w) != 0 {
		t.Errorf("bundled catalog loaded with warnings: %v", w)
	}
	if orphans := cat.Orphans(); len(orphans) != 0 {
		t.Errorf("manifest entries without content: %v", orphans)
	}
	for _, e := range cat.Entries() {
		if report := cat.Validate(e.Name); !report.Valid {
			t.Errorf("%s has missing dependencies: %v", e.Name, report.Missing)
		}
	}
	for _, name := range cat.Names() {
		if cat.Describe(name) == nil {
			t.Errorf("%s has no manifest entry", name)
		}
	}
}

func TestMagicEmbed_ConcurrentAccess(t *testing.T) {
	done := make(chan bool, 2)

	go func() {
		for range 10 {
			if _, err := MagicEmbed.ReadFile("instructions.md"); err != nil {
				t.Errorf("Concurrent read failed: %v", err)
			}
		}
		done <- true
	}()

	go func() {
		for range 10 {
			if _, err := MagicEmbed.ReadDir(CatalogDir); err != nil {
				t.Errorf("Concurrent ReadDir failed: %v", err)
			}
		}
		done <- true
	}()

	for range 2 {
		<-done
	}
}

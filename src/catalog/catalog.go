// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
)

// DefaultManifestPath is the manifest location within a catalog filesystem.
const DefaultManifestPath = "manifest.yaml"

// Catalog bundles the store, the manifest and the dependency validator.
// It is the unit passed to the search engine and the dispatcher.
type Catalog struct {
	*Store
	*Manifest
	*Validator
}

// New assembles a catalog from an existing store and manifest.
// A nil manifest is replaced by an empty one.
func New(store *Store, manifest *Manifest) *Catalog {
	if manifest == nil {
		manifest, _ = NewManifest(nil)
	}
	return &Catalog{
		Store:     store,
		Manifest:  manifest,
		Validator: NewValidator(manifest, store),
	}
}

// Source describes a filesystem-backed catalog.
type Source struct {
	// FS holds the manifest and one directory per resource group.
	FS fs.FS
	// Groups restricts and orders the registered groups. Empty means every
	// top-level directory.
	Groups []string
	// ManifestPath defaults to DefaultManifestPath.
	ManifestPath string
}

// Open builds an unpopulated catalog from src.
//
// Parameters:
//   - src: Filesystem layout to read groups and manifest from
//   - opts: Store options such as WithLogger and WithObserver
//
// Returns:
//   - *Catalog: Catalog ready for lazy population
//   - error: Error if the manifest is invalid or groups cannot be listed
func Open(src Source, opts ...StoreOption) (*Catalog, error) {
	if src.FS == nil {
		return nil, errors.New("catalog source has no filesystem")
	}

	manifestPath := src.ManifestPath
	if manifestPath == "" {
		manifestPath = DefaultManifestPath
	}
	manifest, err := LoadManifest(src.FS, manifestPath)
	if err != nil {
		return nil, err
	}

	groups, err := FSGroups(src.FS, src.Groups...)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(groups, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource store: %w", err)
	}

	return New(store, manifest), nil
}

// Available reports whether a manifest entry resolves to a loaded resource.
func (c *Catalog) Available(name string) bool { return c.Has(name) }

// Orphans returns manifest entries that do not resolve to a loaded resource,
// in manifest order.
func (c *Catalog) Orphans() []string {
	orphans := []string{}
	for _, e := range c.Entries() {
		if !c.Has(e.Name) {
			orphans = append(orphans, e.Name)
		}
	}
	return orphans
}

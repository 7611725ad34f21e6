// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package catalog holds the pattern resources and their static metadata.
//
// A [Store] is populated once from a registry of [Group] loaders. Each group
// is an isolated failure domain: a loader that errors or panics is recorded as
// a [PartialLoadWarning] and the remaining groups still load. Resource names
// are unique; the first group to supply a name wins.
//
// A [Manifest] describes patterns by title, category, tags, complexity and
// declared dependencies. Entries may name resources that never loaded; such
// entries are orphaned and reported as unavailable rather than rejected.
// [Validator] checks declared dependencies against the store and only ever
// reports gaps.
//
// Filesystem catalogs use one directory per group and a manifest.yaml at the
// root:
//
//	manifest.yaml
//	forms/
//	  multi-step-wizard.md
//	workflows/
//	  approval-chain.md
//
// Markdown payloads may start with YAML front matter overriding the resource
// name or MIME type:
//
//	---
//	name: multi-step-wizard
//	mimeType: text/markdown
//	---
//	# Multi-step wizard
//
// Typical use:
//
//	cat, err := catalog.Open(catalog.Source{FS: fsys})
//	if err != nil {
//		return err
//	}
//	cat.Populate(ctx)
//	r, err := cat.Get("multi-step-wizard")
package catalog

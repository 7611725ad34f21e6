// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates provides embedded filesystem access for the pattern
// server's bundled content.
//
// The embedded tree has two parts:
//   - instructions.md and cli_help.md, Go text templates rendered at startup
//   - catalog/, the default pattern catalog: one directory per resource
//     group plus a manifest.yaml with per-pattern metadata
//
// Access goes through the [EmbedFS] interface, with [MagicEmbed] as the
// default implementation. [Catalog] returns the catalog subtree ready to be
// opened by the catalog package.
//
// Example usage:
//
//	import "github.com/H0llyW00dzZ/mcp-pattern-server/src/mcp-server/templates"
//
//	fsys, err := templates.Catalog()
//	if err != nil {
//		return err
//	}
//	cat, err := catalog.Open(catalog.Source{FS: fsys})
package templates

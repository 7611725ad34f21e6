// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// pattern-server is a Model Context Protocol (MCP) server that exposes a
// catalog of reusable implementation patterns to AI assistants over stdio.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/mcp-pattern-server/cmd/pattern-server@latest
//
// # Usage
//
//	pattern-server [FLAGS]
//	pattern-server [COMMAND] [ARGS]
//
// # Flags
//
//	--config        Path to the server configuration file (JSON or YAML)
//	--instructions  Print the instructions sent to MCP clients
//	--help          Show help information
//	--version       Show version information
//
// # Commands
//
//	list [--category NAME]        List patterns with category, complexity and tags
//	search [--limit N] QUERY...   Rank patterns against a free-text query
//	show NAME                     Print a pattern exactly as stored
//	validate [--strict]           Check declared dependencies of every manifest entry
//
// # Environment Variables
//
//	MCP_PATTERN_CONFIG_FILE  Path to configuration file (alternative to --config flag)
//	PATTERN_LOG_LEVEL        Log level override: debug, info, warn or error
//
// # MCP Tools
//
//   - get_pattern: Pattern content with manifest metadata and dependencies
//   - search_patterns: Ranked search over name, title, description, tags and category
//   - list_patterns_by_category: Patterns of one category
//   - list_patterns_by_tag: Patterns carrying a tag
//   - list_patterns_by_complexity: Patterns of one complexity level
//   - get_catalog_overview: Categories, complexity distribution and load warnings
//   - get_pattern_bundle: A pattern together with its transitive dependencies
//   - validate_pattern_dependencies: Report missing dependencies of a pattern
//   - get_server_status: Catalog state, cache statistics, runtime and metrics
//
// # MCP Resources
//
// Every pattern is a resource addressed as patterns://resource/<name>. The
// scheme is configurable per server profile.
//
// # Examples
//
// Start the MCP server with the bundled catalog:
//
//	pattern-server
//
// Serve a directory of patterns under a custom scheme:
//
//	pattern-server --config infra.yaml
//
// Inspect the catalog:
//
//	pattern-server search approval
package main

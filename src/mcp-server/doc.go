// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server and command line for the
// implementation pattern catalog.
//
// The transport-independent dispatcher from the dispatch package is adapted
// to mcp-go here: every tool of the dispatcher table is registered with its
// JSON Schema, pattern reads go through a single resource template, and the
// concrete resources are registered the first time a client lists them. The
// same dispatcher backs the list, search, show and validate subcommands.
//
// Configuration is read from a JSON or YAML file given by --config or
// MCP_PATTERN_CONFIG_FILE; see [Config].
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver

// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/catalog"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/composer"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"
)

// Tool names.
const (
	ToolGetPattern                  = "get_pattern"
	ToolSearchPatterns              = "search_patterns"
	ToolListPatternsByCategory      = "list_patterns_by_category"
	ToolListPatternsByTag           = "list_patterns_by_tag"
	ToolListPatternsByComplexity    = "list_patterns_by_complexity"
	ToolGetCatalogOverview          = "get_catalog_overview"
	ToolGetPatternBundle            = "get_pattern_bundle"
	ToolValidatePatternDependencies = "validate_pattern_dependencies"
	ToolGetServerStatus             = "get_server_status"
)

// ToolDefinition describes one callable tool. InputSchema is a JSON Schema
// object. Role names the part a tool plays in the documented workflow, such
// as "search" or "bundle"; it is not sent to clients.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
	Role        string          `json:"-"`
}

// toolRoles maps tools to their workflow role.
var toolRoles = map[string]string{
	ToolGetPattern:                  "get",
	ToolSearchPatterns:              "search",
	ToolListPatternsByCategory:      "category",
	ToolListPatternsByTag:           "tag",
	ToolListPatternsByComplexity:    "complexity",
	ToolGetCatalogOverview:          "overview",
	ToolGetPatternBundle:            "bundle",
	ToolValidatePatternDependencies: "validate",
	ToolGetServerStatus:             "status",
}

// Content is one block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the outcome of CallTool. Failures set IsError and carry an
// error envelope as their only content block.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Text returns the text of the first content block.
func (r *ToolResult) Text() string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

func textResult(text string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: "text", Text: text}}}
}

// command runs one tool against already validated arguments.
type command func(ctx context.Context, args arguments) (string, error)

// define builds a read-only tool; every tool only inspects the catalog.
func define(name, title string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts,
		mcp.WithTitleAnnotation(title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	return mcp.NewTool(name, opts...)
}

func complexityNames() []string {
	out := make([]string, 0, len(catalog.Complexities))
	for _, c := range catalog.Complexities {
		out = append(out, string(c))
	}
	return out
}

// buildToolDefinitions returns the static tool table.
func buildToolDefinitions() ([]ToolDefinition, error) {
	tools := []mcp.Tool{
		define(ToolGetPattern, "Get Pattern",
			mcp.WithDescription("Get the full content of a pattern together with its manifest metadata and declared dependencies"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.MinLength(1),
				mcp.Description("Pattern name, for example \"wizard\""),
			),
		),
		define(ToolSearchPatterns, "Search Patterns",
			mcp.WithDescription("Search patterns by name, title, description, tags and category; results are ranked by relevance"),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Free text query, matched case-insensitively"),
			),
			mcp.WithNumber("limit",
				mcp.Description(fmt.Sprintf("Maximum number of results to return (default %d)", DefaultSearchLimit)),
				mcp.Min(1),
				mcp.Max(100),
			),
		),
		define(ToolListPatternsByCategory, "List Patterns by Category",
			mcp.WithDescription("List the patterns of one manifest category"),
			mcp.WithString("category",
				mcp.Required(),
				mcp.MinLength(1),
				mcp.Description("Category name, matched case-insensitively"),
			),
		),
		define(ToolListPatternsByTag, "List Patterns by Tag",
			mcp.WithDescription("List the patterns carrying a tag"),
			mcp.WithString("tag",
				mcp.Required(),
				mcp.MinLength(1),
				mcp.Description("Tag, matched case-insensitively"),
			),
		),
		define(ToolListPatternsByComplexity, "List Patterns by Complexity",
			mcp.WithDescription("List the patterns of one complexity level"),
			mcp.WithString("complexity",
				mcp.Required(),
				mcp.Enum(complexityNames()...),
				mcp.Description("Complexity level"),
			),
		),
		define(ToolGetCatalogOverview, "Catalog Overview",
			mcp.WithDescription("Summarize the catalog: categories, complexity distribution, orphaned manifest entries and load warnings"),
		),
		define(ToolGetPatternBundle, "Get Pattern Bundle",
			mcp.WithDescription("Get a pattern and, optionally, every pattern it transitively depends on in a single response"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.MinLength(1),
				mcp.Description("Primary pattern name"),
			),
			mcp.WithBoolean("include_dependencies",
				mcp.Description("Include declared dependencies (default true)"),
				mcp.DefaultBool(true),
			),
		),
		define(ToolValidatePatternDependencies, "Validate Pattern Dependencies",
			mcp.WithDescription("Check that every dependency declared by a pattern is available in the catalog"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.MinLength(1),
				mcp.Description("Pattern name as declared in the manifest"),
			),
		),
		define(ToolGetServerStatus, "Server Status",
			mcp.WithDescription("Report catalog state, load warnings, search cache statistics and, when detailed, runtime and metric values"),
			mcp.WithBoolean("detailed",
				mcp.Description("Include runtime memory statistics and metrics (default false)"),
				mcp.DefaultBool(false),
			),
			mcp.WithString("format",
				mcp.Enum(composer.FormatJSON, composer.FormatMarkdown),
				mcp.Description("Output format (default json)"),
				mcp.DefaultString(composer.FormatJSON),
			),
		),
	}

	defs := make([]ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		schema, err := json.Marshal(mcp.ToolArgumentsSchema(tool.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("failed to encode input schema of %s: %w", tool.Name, err)
		}
		defs = append(defs, ToolDefinition{
			Name:        tool.Name,
			Title:       tool.Annotations.Title,
			Description: tool.Description,
			InputSchema: schema,
			Role:        toolRoles[tool.Name],
		})
	}
	return defs, nil
}

// commandMap binds every tool name to its handler.
func (d *Dispatcher) commandMap() map[string]command {
	return map[string]command{
		ToolGetPattern: func(_ context.Context, args arguments) (string, error) {
			return d.composer.ForResource(args.String("name", ""))
		},
		ToolSearchPatterns: func(_ context.Context, args arguments) (string, error) {
			query := args.String("query", "")
			limit := args.Int("limit", d.defaultLimit)
			return d.composer.ForSearch(query, d.engine.Search(query), limit)
		},
		ToolListPatternsByCategory: func(_ context.Context, args arguments) (string, error) {
			return d.composer.ForCategory(args.String("category", ""))
		},
		ToolListPatternsByTag: func(_ context.Context, args arguments) (string, error) {
			return d.composer.ForTag(args.String("tag", ""))
		},
		ToolListPatternsByComplexity: func(_ context.Context, args arguments) (string, error) {
			level, err := catalog.ParseComplexity(args.String("complexity", ""))
			if err != nil {
				return "", err
			}
			return d.composer.ForComplexity(level)
		},
		ToolGetCatalogOverview: func(_ context.Context, _ arguments) (string, error) {
			return d.composer.ForOverview()
		},
		ToolGetPatternBundle: func(_ context.Context, args arguments) (string, error) {
			return d.composer.ForBundle(args.String("name", ""), args.Bool("include_dependencies", true))
		},
		ToolValidatePatternDependencies: func(_ context.Context, args arguments) (string, error) {
			return d.composer.ForDependencies(args.String("name", ""))
		},
		ToolGetServerStatus: func(_ context.Context, args arguments) (string, error) {
			report := d.Status(args.Bool("detailed", false))
			return d.composer.ForStatus(report, args.String("format", composer.FormatJSON))
		},
	}
}

// validateCommands reports a tool without a handler or a handler without a
// tool.
func validateCommands(tools []ToolDefinition, commands map[string]command) error {
	defined := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if _, dup := defined[t.Name]; dup {
			return fmt.Errorf("tool %q defined twice", t.Name)
		}
		defined[t.Name] = struct{}{}
		if _, ok := commands[t.Name]; !ok {
			return fmt.Errorf("tool %q has no handler", t.Name)
		}
	}

	var orphans []string
	for name := range commands {
		if _, ok := defined[name]; !ok {
			orphans = append(orphans, name)
		}
	}
	if len(orphans) > 0 {
		sort.Strings(orphans)
		return fmt.Errorf("handlers without tool definition: %s", strings.Join(orphans, ", "))
	}
	return nil
}

// ListTools returns the static tool table.
func (d *Dispatcher) ListTools(ctx context.Context) (out []ToolDefinition, err error) {
	defer func(start time.Time) { d.observe(operationListTools, start, err) }(time.Now())

	if err = d.EnsureReady(ctx); err != nil {
		return nil, err
	}

	return d.Definitions(), nil
}

// Definitions returns the static tool table without waiting for the
// catalog. Adapters use it to register tools at startup.
func (d *Dispatcher) Definitions() []ToolDefinition {
	out := make([]ToolDefinition, len(d.tools))
	copy(out, d.tools)
	return out
}

// ToolNames returns the names of every tool in table order.
func (d *Dispatcher) ToolNames() []string {
	names := make([]string, 0, len(d.tools))
	for _, t := range d.tools {
		names = append(names, t.Name)
	}
	return names
}

// CallTool runs the named tool. It never returns an error: an unknown tool,
// invalid arguments, a failing handler or a panic all become a result with
// IsError set and an error envelope as content.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]any) (result *ToolResult) {
	operation := name
	if _, ok := d.commands[name]; !ok {
		operation = operationUnknownTool
	}

	var err error
	defer func(start time.Time) {
		if r := recover(); r != nil {
			d.log.Errorf("tool %s panicked: %v", name, r)
			err = fmt.Errorf("internal error while running %s", name)
			result = d.errorResult(err, name)
		}
		d.observe(operation, start, err)
	}(time.Now())

	if err = d.EnsureReady(ctx); err != nil {
		return d.errorResult(err, name)
	}

	cmd, ok := d.commands[name]
	if !ok {
		err = &catalog.NotFoundError{Kind: catalog.KindTool, Name: name, Available: d.ToolNames()}
		return d.errorResult(err, name)
	}

	if err = d.validateArguments(name, args); err != nil {
		return d.errorResult(err, name)
	}

	text, err := cmd(ctx, arguments(args))
	if err != nil {
		d.log.Debugf("tool %s failed: %v", name, err)
		return d.errorResult(err, name)
	}
	return textResult(text)
}

func (d *Dispatcher) errorResult(err error, operation string) *ToolResult {
	result := textResult(d.composer.ForError(err, operation))
	result.IsError = true
	return result
}

// validateArguments checks args against the tool's input schema.
func (d *Dispatcher) validateArguments(name string, args map[string]any) error {
	schema, ok := d.schemas[name]
	if !ok {
		return nil
	}
	if args == nil {
		args = map[string]any{}
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return &composer.ArgumentError{Tool: name, Details: []string{err.Error()}}
	}
	if res.Valid() {
		return nil
	}

	details := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		details = append(details, e.String())
	}
	return &composer.ArgumentError{Tool: name, Details: details}
}

// arguments gives typed access to validated tool arguments.
type arguments map[string]any

// String returns the string argument key, or def when absent.
func (a arguments) String(key, def string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return def
}

// Bool returns the boolean argument key, or def when absent.
func (a arguments) Bool(key string, def bool) bool {
	if v, ok := a[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the numeric argument key truncated to an int, or def when
// absent or not finite.
func (a arguments) Int(key string, def int) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
	}
	return def
}

// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dispatch

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/composer"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/logger"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/metrics"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/search"
	"github.com/xeipuuv/gojsonschema"
)

// Defaults applied by New.
const (
	DefaultScheme      = "patterns"
	DefaultSearchLimit = 20
	DefaultServerName  = "MCP Pattern Server"
)

// Operation labels for metrics.
const (
	operationListResources = "list_resources"
	operationReadResource  = "read_resource"
	operationListTools     = "list_tools"
	operationUnknownTool   = "unknown_tool"
)

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*$`)

// Catalog is everything the dispatcher needs from the catalog bundle.
// [*catalog.Catalog] satisfies it.
type Catalog interface {
	composer.Catalog
	Populate(ctx context.Context)
	Populated() bool
	Groups() []string
}

// State is the catalog lifecycle as seen by the dispatcher.
type State int32

const (
	StateUninitialized State = iota
	StatePopulating
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePopulating:
		return "populating"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithMetrics records operations and populations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithScheme sets the URI scheme of resource identifiers.
func WithScheme(scheme string) Option {
	return func(d *Dispatcher) { d.scheme = scheme }
}

// WithDefaultLimit caps search results when the caller gives no limit.
func WithDefaultLimit(n int) Option {
	return func(d *Dispatcher) { d.defaultLimit = n }
}

// WithSearchCacheSize bounds the search result cache; zero disables it.
func WithSearchCacheSize(n int) Option {
	return func(d *Dispatcher) { d.cacheSize = n }
}

// WithServerInfo sets the name and version reported by get_server_status.
func WithServerInfo(name, version string) Option {
	return func(d *Dispatcher) {
		d.serverName = name
		d.version = version
	}
}

// Dispatcher is the transport-independent request entry point. Every
// operation first ensures the catalog is populated.
//
// Resource reads return errors to the caller. Tool calls never do; failures
// come back as results with IsError set.
type Dispatcher struct {
	cat      Catalog
	engine   *search.Engine
	composer *composer.Composer
	log      logger.Logger
	metrics  *metrics.Metrics

	scheme       string
	defaultLimit int
	cacheSize    int
	serverName   string
	version      string

	tools    []ToolDefinition
	commands map[string]command
	schemas  map[string]*gojsonschema.Schema

	state atomic.Int32
	mu    sync.Mutex
	done  chan struct{}
}

// New creates a dispatcher over cat.
//
// Parameters:
//   - cat: Catalog bundle; it is populated lazily on the first request
//   - opts: Functional options
//
// Returns:
//   - *Dispatcher: Ready to serve requests
//   - error: Error if the scheme is invalid or the tool table does not match
//     the command map
func New(cat Catalog, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		cat:          cat,
		log:          logger.Nop(),
		scheme:       DefaultScheme,
		defaultLimit: DefaultSearchLimit,
		cacheSize:    search.DefaultCacheSize,
		serverName:   DefaultServerName,
	}
	for _, opt := range opts {
		opt(d)
	}

	if !schemePattern.MatchString(d.scheme) {
		return nil, fmt.Errorf("invalid resource scheme %q", d.scheme)
	}
	if d.defaultLimit <= 0 {
		d.defaultLimit = DefaultSearchLimit
	}

	d.engine = search.NewEngine(cat, search.WithCacheSize(d.cacheSize))
	d.composer = composer.New(d.scheme, cat)
	d.commands = d.commandMap()

	tools, err := buildToolDefinitions()
	if err != nil {
		return nil, err
	}
	if err := validateCommands(tools, d.commands); err != nil {
		return nil, err
	}
	d.tools = tools

	d.schemas = make(map[string]*gojsonschema.Schema, len(tools))
	for _, def := range tools {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(def.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("failed to compile input schema of %s: %w", def.Name, err)
		}
		d.schemas[def.Name] = schema
	}

	return d, nil
}

// State returns the current catalog lifecycle state.
func (d *Dispatcher) State() State { return State(d.state.Load()) }

// Scheme returns the URI scheme of resource identifiers.
func (d *Dispatcher) Scheme() string { return d.scheme }

// Catalog returns the catalog bundle the dispatcher serves.
func (d *Dispatcher) Catalog() Catalog { return d.cat }

// Engine returns the search engine used by search_patterns.
func (d *Dispatcher) Engine() *search.Engine { return d.engine }

// Composer returns the response composer.
func (d *Dispatcher) Composer() *composer.Composer { return d.composer }

// EnsureReady populates the catalog on first use. Concurrent callers share
// one in-flight population; once Ready this is a no-op.
//
// The population itself is not cancelled when ctx is; ctx only bounds how
// long this caller waits for it.
func (d *Dispatcher) EnsureReady(ctx context.Context) error {
	if d.State() == StateReady {
		return nil
	}

	d.mu.Lock()
	if d.State() == StateUninitialized {
		d.state.Store(int32(StatePopulating))
		d.done = make(chan struct{})
		go d.populate(context.WithoutCancel(ctx), d.done)
	}
	done := d.done
	d.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if d.State() == StateReady {
			return nil
		}
		return fmt.Errorf("waiting for catalog population: %w", ctx.Err())
	}
}

// populate runs the single population. The catalog becomes Ready even if
// population panics; whatever loaded before the panic is served.
func (d *Dispatcher) populate(ctx context.Context, done chan struct{}) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.log.Errorf("catalog population panicked: %v", r)
		}
		d.state.Store(int32(StateReady))
		close(done)

		d.log.Printf("catalog ready: %d resources, %d warnings in %v",
			len(d.cat.Names()), len(d.cat.Warnings()), time.Since(start).Round(time.Microsecond))
	}()

	d.log.Debugf("populating catalog")
	d.metrics.ObservePopulation()
	d.cat.Populate(ctx)
}

func (d *Dispatcher) observe(operation string, start time.Time, err error) {
	d.metrics.ObserveOperation(operation, time.Since(start), err)
}

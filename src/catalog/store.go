// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/logger"
)

// Loader produces the resources of a single group.
type Loader func(ctx context.Context) ([]*Resource, error)

// Group is one entry of the store's registry: a stable identifier and the
// loader that populates it.
type Group struct {
	ID   string
	Load Loader
}

// GroupObserver is notified once per group after population.
// A nil error means the group loaded; count is the number of resources added.
type GroupObserver interface {
	ObserveGroupLoad(group string, count int, err error)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for load warnings and debug output.
func WithLogger(l logger.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver registers an observer for per-group load outcomes.
func WithObserver(o GroupObserver) StoreOption {
	return func(s *Store) { s.observer = o }
}

// Store is the in-memory resource catalog.
//
// Resources are added once by Populate, in registry order, and read
// thereafter. Store is safe for concurrent use.
type Store struct {
	groups   []Group
	log      logger.Logger
	observer GroupObserver

	mu        sync.RWMutex
	populated bool
	order     []*Resource
	byName    map[string]*Resource
	warnings  []*PartialLoadWarning
}

// NewStore creates a store over the given group registry.
// Group identifiers must be non-empty and unique, and every group needs a loader.
func NewStore(groups []Group, opts ...StoreOption) (*Store, error) {
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g.ID == "" {
			return nil, errors.New("resource group with empty identifier")
		}
		if g.Load == nil {
			return nil, fmt.Errorf("resource group %q has no loader", g.ID)
		}
		if _, dup := seen[g.ID]; dup {
			return nil, fmt.Errorf("resource group %q registered twice", g.ID)
		}
		seen[g.ID] = struct{}{}
	}

	s := &Store{
		groups: slices.Clone(groups),
		log:    logger.Nop(),
		byName: make(map[string]*Resource),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Populate loads every registered group in order. A group whose loader
// fails or panics is skipped and recorded as a PartialLoadWarning; the
// remaining groups still load. Calling Populate on a populated store does
// nothing.
func (s *Store) Populate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.populated {
		return
	}

	for _, g := range s.groups {
		resources, err := loadGroup(ctx, g)
		if err != nil {
			s.warn(&PartialLoadWarning{Group: g.ID, Err: err})
			s.observe(g.ID, 0, err)
			continue
		}

		now := time.Now()
		added := 0
		for _, r := range resources {
			if r == nil || r.Name == "" {
				s.warn(&PartialLoadWarning{Group: g.ID, Err: ErrEmptyName})
				continue
			}
			if strings.Contains(r.Name, "/") {
				s.warn(&PartialLoadWarning{Group: g.ID, Resource: r.Name, Err: ErrInvalidName})
				continue
			}
			if _, dup := s.byName[r.Name]; dup {
				s.warn(&PartialLoadWarning{Group: g.ID, Resource: r.Name, Err: ErrDuplicateName})
				continue
			}
			if r.Group == "" {
				r.Group = g.ID
			}
			if r.LoadedAt.IsZero() {
				r.LoadedAt = now
			}
			s.byName[r.Name] = r
			s.order = append(s.order, r)
			added++
		}

		s.log.Debugf("loaded %d resources from group %q", added, g.ID)
		s.observe(g.ID, added, nil)
	}

	s.populated = true
}

// loadGroup runs a loader, converting a panic into an error so one broken
// group cannot take the process down.
func loadGroup(ctx context.Context, g Group) (resources []*Resource, err error) {
	defer func() {
		if r := recover(); r != nil {
			resources = nil
			err = fmt.Errorf("loader panicked: %v", r)
		}
	}()
	return g.Load(ctx)
}

func (s *Store) warn(w *PartialLoadWarning) {
	s.warnings = append(s.warnings, w)
	s.log.Warnf("%v", w)
}

func (s *Store) observe(group string, count int, err error) {
	if s.observer != nil {
		s.observer.ObserveGroupLoad(group, count, err)
	}
}

// Populated reports whether Populate has completed.
func (s *Store) Populated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.populated
}

// Get returns the named resource, or a *NotFoundError listing the names
// that are available.
func (s *Store) Get(name string) (*Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.byName[name]; ok {
		return r, nil
	}
	return nil, &NotFoundError{Kind: KindResource, Name: name, Available: s.namesLocked()}
}

// Has reports whether name is loaded.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byName[name]
	return ok
}

// All returns every loaded resource in load order.
func (s *Store) All() []*Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Names returns the loaded resource names in load order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.namesLocked()
}

func (s *Store) namesLocked() []string {
	names := make([]string, 0, len(s.order))
	for _, r := range s.order {
		names = append(names, r.Name)
	}
	return names
}

// Len returns the number of loaded resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Groups returns the registered group identifiers in registry order.
func (s *Store) Groups() []string {
	ids := make([]string, 0, len(s.groups))
	for _, g := range s.groups {
		ids = append(ids, g.ID)
	}
	return ids
}

// Warnings returns the load warnings recorded by Populate.
func (s *Store) Warnings() []*PartialLoadWarning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.warnings)
}

// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names the namespace a lookup failed in.
type Kind string

const (
	// KindResource is used for unknown resource names.
	KindResource Kind = "resource"
	// KindTool is used for unknown tool names.
	KindTool Kind = "tool"
)

var (
	// ErrDuplicateName is wrapped by a PartialLoadWarning when a group yields
	// a resource whose name is already registered.
	ErrDuplicateName = errors.New("duplicate resource name")
	// ErrEmptyName is wrapped by a PartialLoadWarning when a loader yields an
	// unnamed or nil resource.
	ErrEmptyName = errors.New("resource has no name")
	// ErrInvalidName is wrapped by a PartialLoadWarning when a resource name
	// contains a slash and so cannot form a single URI path segment.
	ErrInvalidName = errors.New("resource name must not contain '/'")
)

// NotFoundError is returned for an unknown resource or tool name.
// Available carries the valid names so callers can offer remediation; they
// are also part of the message, which is all a protocol client receives.
type NotFoundError struct {
	Kind      Kind
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	if len(e.Available) == 0 {
		return msg + "; no " + string(e.Kind) + "s are available"
	}
	return msg + "; available: " + strings.Join(e.Available, ", ")
}

// InvalidURIError is returned when a resource identifier does not match
// the scheme://resource/<name> pattern.
type InvalidURIError struct {
	URI    string
	Reason string
}

func (e *InvalidURIError) Error() string {
	return fmt.Sprintf("invalid resource URI %q: %s", e.URI, e.Reason)
}

// PartialLoadWarning records a group, or a single resource within a group,
// that could not be added to the store. It is logged and kept for
// inspection but never returned from Populate.
type PartialLoadWarning struct {
	Group    string
	Resource string
	Err      error
}

func (w *PartialLoadWarning) Error() string {
	if w.Resource != "" {
		return fmt.Sprintf("group %q: resource %q skipped: %v", w.Group, w.Resource, w.Err)
	}
	return fmt.Sprintf("group %q failed to load: %v", w.Group, w.Err)
}

func (w *PartialLoadWarning) Unwrap() error { return w.Err }

// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Resource is a named, opaque payload served by the catalog.
//
// A Resource is immutable once the store has accepted it; callers must not
// modify Payload.
type Resource struct {
	Name     string
	Group    string
	MIMEType string
	Payload  []byte
	// Digest is the hex-encoded BLAKE2b-256 sum of Payload.
	Digest   string
	LoadedAt time.Time
}

// NewResource builds a Resource and computes its digest.
// Group and LoadedAt are filled in by the store during population.
func NewResource(name, mimeType string, payload []byte) *Resource {
	sum := blake2b.Sum256(payload)
	return &Resource{
		Name:     name,
		MIMEType: mimeType,
		Payload:  payload,
		Digest:   hex.EncodeToString(sum[:]),
	}
}

// Text returns the payload as a string.
func (r *Resource) Text() string { return string(r.Payload) }

// Size returns the payload length in bytes.
func (r *Resource) Size() int { return len(r.Payload) }

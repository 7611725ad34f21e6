// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dispatch

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/catalog"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/composer"
)

// Annotations carry the manifest metadata of a listed resource. Resources
// without a manifest entry have empty annotations.
type Annotations struct {
	Category   string   `json:"category"`
	Complexity string   `json:"complexity"`
	Tags       []string `json:"tags"`
}

// ResourceDescriptor is one entry of a resource listing.
type ResourceDescriptor struct {
	URI         string      `json:"uri"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	MIMEType    string      `json:"mimeType"`
	Annotations Annotations `json:"annotations"`
}

// ListResources returns every loaded resource in load order.
func (d *Dispatcher) ListResources(ctx context.Context) (out []ResourceDescriptor, err error) {
	defer func(start time.Time) { d.observe(operationListResources, start, err) }(time.Now())

	if err = d.EnsureReady(ctx); err != nil {
		return nil, err
	}

	resources := d.cat.All()
	out = make([]ResourceDescriptor, 0, len(resources))
	for _, r := range resources {
		desc := ResourceDescriptor{
			URI:         d.composer.URI(r.Name),
			Name:        r.Name,
			MIMEType:    r.MIMEType,
			Annotations: Annotations{Tags: []string{}},
		}
		if e := d.cat.Describe(r.Name); e != nil {
			desc.Description = e.Description
			if desc.Description == "" {
				desc.Description = e.Title
			}
			desc.Annotations.Category = e.Category
			desc.Annotations.Complexity = string(e.Complexity)
			if e.Tags != nil {
				desc.Annotations.Tags = e.Tags
			}
		}
		out = append(out, desc)
	}
	return out, nil
}

// ReadResource resolves uri and returns the resource payload unmodified.
// A malformed uri yields *catalog.InvalidURIError and an unknown name
// *catalog.NotFoundError.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) (out []composer.Contents, err error) {
	defer func(start time.Time) { d.observe(operationReadResource, start, err) }(time.Now())

	if err = d.EnsureReady(ctx); err != nil {
		return nil, err
	}

	name, err := d.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	r, err := d.cat.Get(name)
	if err != nil {
		return nil, err
	}
	return []composer.Contents{d.composer.ForContents(uri, r)}, nil
}

// ParseURI extracts the resource name from "<scheme>://resource/<name>".
func (d *Dispatcher) ParseURI(uri string) (string, error) {
	prefix := d.scheme + "://resource/"
	if !strings.HasPrefix(uri, prefix) {
		return "", &catalog.InvalidURIError{URI: uri, Reason: "expected " + prefix + "<name>"}
	}

	raw := strings.TrimPrefix(uri, prefix)
	if raw == "" {
		return "", &catalog.InvalidURIError{URI: uri, Reason: "missing resource name"}
	}
	if strings.ContainsAny(raw, "/?#") {
		return "", &catalog.InvalidURIError{URI: uri, Reason: "resource name must be a single path segment"}
	}

	name, err := url.PathUnescape(raw)
	if err != nil {
		return "", &catalog.InvalidURIError{URI: uri, Reason: "malformed escape in resource name"}
	}
	return name, nil
}

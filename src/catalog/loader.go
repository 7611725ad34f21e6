// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
)

// patternMatter is the optional front matter of a markdown payload.
type patternMatter struct {
	Name     string `yaml:"name"`
	MIMEType string `yaml:"mimeType"`
}

// FSGroups builds a group registry from the subdirectories of fsys.
//
// Parameters:
//   - fsys: Filesystem whose top-level directories are resource groups
//   - ids: Group identifiers to register; when empty every non-hidden top-level
//     directory is registered in lexical order
//
// Returns:
//   - []Group: One group per identifier, each backed by FSLoader
//   - error: Error if the top-level directory cannot be listed
//
// An identifier given explicitly is registered even when its directory does
// not exist; it then fails at population time like any other broken group.
func FSGroups(fsys fs.FS, ids ...string) ([]Group, error) {
	if len(ids) == 0 {
		entries, err := fs.ReadDir(fsys, ".")
		if err != nil {
			return nil, fmt.Errorf("failed to list resource groups: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() && !isHidden(e.Name()) {
				ids = append(ids, e.Name())
			}
		}
	}

	groups := make([]Group, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, Group{ID: id, Load: FSLoader(fsys, id)})
	}
	return groups, nil
}

// FSLoader returns a Loader reading every regular file in dir.
// The resource name is the file name without extension unless markdown front
// matter overrides it.
func FSLoader(fsys fs.FS, dir string) Loader {
	return func(ctx context.Context) ([]*Resource, error) {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read group directory: %w", err)
		}

		resources := make([]*Resource, 0, len(entries))
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if e.IsDir() || isHidden(e.Name()) {
				continue
			}
			r, err := loadFile(fsys, path.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			resources = append(resources, r)
		}
		return resources, nil
	}
}

func loadFile(fsys fs.FS, name string) (*Resource, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	base := path.Base(name)
	ext := strings.ToLower(path.Ext(base))
	resourceName := strings.TrimSuffix(base, path.Ext(base))
	mimeType := mimeTypeFor(ext)
	payload := data

	if ext == ".md" || ext == ".markdown" {
		var matter patternMatter
		body, err := frontmatter.Parse(bytes.NewReader(data), &matter)
		if err != nil {
			return nil, fmt.Errorf("failed to parse front matter of %s: %w", name, err)
		}
		payload = body
		if matter.Name != "" {
			resourceName = matter.Name
		}
		if matter.MIMEType != "" {
			mimeType = matter.MIMEType
		}
	}

	return NewResource(resourceName, mimeType, payload), nil
}

func mimeTypeFor(ext string) string {
	switch ext {
	case ".md", ".markdown":
		return "text/markdown"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".tf", ".hcl":
		return "text/x-hcl"
	default:
		return "text/plain"
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

// DependencyReport is the advisory result of Validate. A report with
// missing dependencies is never an error; the resource is still served.
type DependencyReport struct {
	Name     string   `json:"name"`
	Valid    bool     `json:"valid"`
	Missing  []string `json:"missing"`
	Declared []string `json:"declared"`
}

// Validator checks declared dependencies against loaded resources.
type Validator struct {
	manifest interface {
		Describe(name string) *ManifestEntry
	}
	store interface {
		Has(name string) bool
	}
}

// NewValidator wires a validator to a manifest and a store.
func NewValidator(manifest *Manifest, store *Store) *Validator {
	return &Validator{manifest: manifest, store: store}
}

// Validate reports which of name's declared dependencies are not loaded.
// A name without a manifest entry has nothing to violate and is valid.
func (v *Validator) Validate(name string) DependencyReport {
	report := DependencyReport{
		Name:     name,
		Valid:    true,
		Missing:  []string{},
		Declared: []string{},
	}

	entry := v.manifest.Describe(name)
	if entry == nil {
		return report
	}

	for _, dep := range entry.Dependencies {
		report.Declared = append(report.Declared, dep)
		if !v.store.Has(dep) {
			report.Missing = append(report.Missing, dep)
		}
	}
	report.Valid = len(report.Missing) == 0
	return report
}

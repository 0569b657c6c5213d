package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the startup declaration of every record type this service may
// query. Nothing outside the catalog is ever interpolated into SQL.
type Catalog struct {
	Types    []TypeSpec   `yaml:"types"`
	Template TemplateSpec `yaml:"template"`
}

// TypeSpec maps a logical record-type name onto its backing table.
type TypeSpec struct {
	Name       string `yaml:"name"`
	Table      string `yaml:"table"`
	IDField    string `yaml:"id_field"`
	LabelField string `yaml:"label_field"`
}

// TemplateSpec names the fixed configuration-metadata table and the column
// template lookups match against.
type TemplateSpec struct {
	Table      string `yaml:"table"`
	LabelField string `yaml:"label_field"`
}

func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

func (c *Catalog) validate() error {
	if len(c.Types) == 0 {
		return fmt.Errorf("catalog declares no record types")
	}

	seen := map[string]struct{}{}
	for i, spec := range c.Types {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return fmt.Errorf("catalog type %d: name is required", i)
		}
		if strings.TrimSpace(spec.Table) == "" {
			return fmt.Errorf("catalog type %q: table is required", name)
		}
		if strings.TrimSpace(spec.IDField) == "" {
			return fmt.Errorf("catalog type %q: id_field is required", name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("catalog type %q declared twice", name)
		}
		seen[name] = struct{}{}
	}

	if strings.TrimSpace(c.Template.Table) == "" {
		return fmt.Errorf("catalog template: table is required")
	}
	if strings.TrimSpace(c.Template.LabelField) == "" {
		return fmt.Errorf("catalog template: label_field is required")
	}

	return nil
}

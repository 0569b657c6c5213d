package schema

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"hierarchy-api/internal/model"
)

// ColumnSource enumerates the columns of a table. The production
// implementation reads information_schema; tests supply a map.
type ColumnSource interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

// RecordType is one catalog entry with its introspected column set. Field
// names from requests are only ever used after passing HasField, which is
// what keeps caller input out of SQL identifiers.
type RecordType struct {
	Name       string
	Table      string
	IDField    string
	LabelField string

	columns map[string]struct{}
	ordered []string
}

func (t *RecordType) HasField(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Fields returns every column of the backing table in definition order.
func (t *RecordType) Fields() []string {
	out := make([]string, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Registry holds every queryable record type, resolved once at startup so no
// request triggers schema introspection.
type Registry struct {
	types    map[string]*RecordType
	template *RecordType
}

func NewRegistry(ctx context.Context, source ColumnSource, catalog *Catalog) (*Registry, error) {
	registry := &Registry{types: make(map[string]*RecordType, len(catalog.Types))}

	for _, spec := range catalog.Types {
		rt, err := resolveType(ctx, source, spec.Name, spec.Table, spec.IDField, spec.LabelField)
		if err != nil {
			return nil, err
		}
		registry.types[spec.Name] = rt
		slog.Info("record type registered", "type", spec.Name, "table", spec.Table, "fields", len(rt.ordered))
	}

	template, err := resolveType(ctx, source, "template", catalog.Template.Table, "id", catalog.Template.LabelField)
	if err != nil {
		return nil, err
	}
	registry.template = template

	return registry, nil
}

func resolveType(ctx context.Context, source ColumnSource, name string, table string, idField string, labelField string) (*RecordType, error) {
	columns, err := source.Columns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("introspect table %q: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %q for type %q has no columns", table, name)
	}

	rt := &RecordType{
		Name:       name,
		Table:      table,
		IDField:    idField,
		LabelField: labelField,
		columns:    make(map[string]struct{}, len(columns)),
		ordered:    columns,
	}
	for _, col := range columns {
		rt.columns[col] = struct{}{}
	}

	if !rt.HasField(idField) {
		return nil, fmt.Errorf("table %q has no id column %q", table, idField)
	}
	if labelField != "" && !rt.HasField(labelField) {
		return nil, fmt.Errorf("table %q has no label column %q", table, labelField)
	}

	return rt, nil
}

func (r *Registry) Type(name string) (*RecordType, error) {
	rt, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrTypeNotRegistered, name)
	}
	return rt, nil
}

// Template returns the configuration-metadata type.
func (r *Registry) Template() *RecordType {
	return r.template
}

func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlclause

import (
	"fmt"
	"io"
	"reflect"

	"github.com/canonical/sqlclause/ast"
	"github.com/canonical/sqlclause/internal/config"
	"github.com/canonical/sqlclause/internal/typeinfo"
)

// Column maps a property of an entity to a column.
type Column struct {
	Property string
	Column   string
}

// ColumnMap is the property to column mapping of one entity. It is read-only
// once built and safe for concurrent use.
type ColumnMap struct {
	entity  string
	table   string
	columns []Column
	index   map[string]string
}

// Entity returns the name of the mapped entity.
func (m *ColumnMap) Entity() string {
	if m == nil {
		return ""
	}
	return m.entity
}

// Table returns the default table of the entity, which may be empty.
func (m *ColumnMap) Table() string {
	if m == nil {
		return ""
	}
	return m.table
}

// Columns returns the mapped columns in registration order.
func (m *ColumnMap) Columns() []Column {
	if m == nil {
		return nil
	}
	return append([]Column(nil), m.columns...)
}

// Column returns the column mapped to property.
func (m *ColumnMap) Column(property string) (string, bool) {
	if m == nil {
		return "", false
	}
	col, ok := m.index[property]
	return col, ok
}

// Registry holds the column maps of every registered entity. It is built once
// with a [RegistryBuilder] and never changes afterwards.
type Registry struct {
	byType map[reflect.Type]*ColumnMap
	byName map[string]*ColumnMap
	names  []string
}

// Lookup returns the column map of the entity type of sample. Pointers are
// dereferenced. An unregistered entity is not an error.
func (r *Registry) Lookup(sample any) (*ColumnMap, bool) {
	if r == nil || sample == nil {
		return nil, false
	}
	m, ok := r.byType[entityType(sample)]
	return m, ok
}

// LookupName returns the column map of the entity called name.
func (r *Registry) LookupName(name string) (*ColumnMap, bool) {
	if r == nil {
		return nil, false
	}
	m, ok := r.byName[name]
	return m, ok
}

// Entities returns the names of the registered entities in registration
// order.
func (r *Registry) Entities() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

// Where is [Where] on the column map of the entity of sample. It returns an
// empty string when the entity is not registered.
func (r *Registry) Where(sample any, pred ast.Node) (string, error) {
	m, _ := r.Lookup(sample)
	return Where(m, pred)
}

// OrderBy is [OrderBy] on the column map of the entity of sample. An
// unregistered entity fails with [ErrUnmappedProperty].
func (r *Registry) OrderBy(sample any, sel ast.Node) (string, error) {
	m, _ := r.Lookup(sample)
	return OrderBy(m, sel)
}

// Update is [Update] on the column map of the entity of sample. When table is
// empty the table of the column map is used. It returns an empty string when
// the entity is not registered.
func (r *Registry) Update(sample any, pred ast.Node, patch any, table string, opts ...UpdateOption) (string, error) {
	m, ok := r.Lookup(sample)
	if !ok {
		return "", nil
	}
	if table == "" {
		table = m.Table()
	}
	if table == "" {
		return "", fmt.Errorf("cannot update %q: no table given", m.Entity())
	}
	return Update(m, pred, patch, table, opts...)
}

// RegistryBuilder collects entity mappings. Errors are reported by
// [RegistryBuilder.Build].
type RegistryBuilder struct {
	entities []*EntityBuilder
	err      error
}

// NewRegistryBuilder returns an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// EntityBuilder adds columns to a single entity of a [RegistryBuilder].
type EntityBuilder struct {
	builder *RegistryBuilder
	typ     reflect.Type
	name    string
	table   string
	columns []Column
}

// Entity starts the mapping of the entity type of sample. The entity is named
// after its type.
func (b *RegistryBuilder) Entity(sample any) *EntityBuilder {
	e := &EntityBuilder{builder: b}
	if sample == nil {
		b.fail(fmt.Errorf("cannot map entity: nil sample"))
	} else {
		e.typ = entityType(sample)
		e.name = e.typ.Name()
	}
	b.entities = append(b.entities, e)
	return e
}

// EntityNamed starts the mapping of an entity known only by name. It can be
// found with [Registry.LookupName] only.
func (b *RegistryBuilder) EntityNamed(name string) *EntityBuilder {
	e := &EntityBuilder{builder: b, name: name}
	b.entities = append(b.entities, e)
	return e
}

// Register maps the entity types of samples from the "db" tags of their
// fields. Untagged fields are not mapped.
func (b *RegistryBuilder) Register(samples ...any) *RegistryBuilder {
	for _, sample := range samples {
		info, err := typeinfo.GetTypeInfo(sample)
		if err != nil {
			b.fail(fmt.Errorf("cannot register %T: %w", sample, err))
			continue
		}
		e := b.Entity(sample)
		for _, f := range info.Fields {
			if col, ok := info.FieldToTag[f.Name]; ok {
				e.Map(f.Name, col)
			}
		}
	}
	return b
}

// LoadYAML maps the entities of a mappings file. Entities whose name matches
// the type name of one of samples are also found with [Registry.Lookup].
func (b *RegistryBuilder) LoadYAML(r io.Reader, samples ...any) *RegistryBuilder {
	mappings, err := config.Load(r)
	if err != nil {
		b.fail(err)
		return b
	}
	types := make(map[string]reflect.Type, len(samples))
	for _, sample := range samples {
		if sample == nil {
			continue
		}
		typ := entityType(sample)
		types[typ.Name()] = typ
	}
	for _, ent := range mappings.Entities {
		e := b.EntityNamed(ent.Name).Table(ent.Table)
		e.typ = types[ent.Name]
		for _, col := range ent.Columns {
			e.Map(col.Property, col.Column)
		}
	}
	return b
}

// Build validates the collected mappings and returns the registry.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	r := &Registry{
		byType: make(map[reflect.Type]*ColumnMap),
		byName: make(map[string]*ColumnMap),
	}
	for _, e := range b.entities {
		m, err := e.columnMap()
		if err != nil {
			return nil, err
		}
		if _, ok := r.byName[m.entity]; ok {
			return nil, fmt.Errorf("entity %q registered twice", m.entity)
		}
		r.byName[m.entity] = m
		r.names = append(r.names, m.entity)
		if e.typ != nil {
			if other, ok := r.byType[e.typ]; ok {
				return nil, fmt.Errorf("type %s registered as %q and %q", e.typ, other.entity, m.entity)
			}
			r.byType[e.typ] = m
		}
	}
	return r, nil
}

func (b *RegistryBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Named overrides the name of the entity.
func (e *EntityBuilder) Named(name string) *EntityBuilder {
	e.name = name
	return e
}

// Table sets the default table of the entity.
func (e *EntityBuilder) Table(table string) *EntityBuilder {
	e.table = table
	return e
}

// Map maps property to column.
func (e *EntityBuilder) Map(property, column string) *EntityBuilder {
	e.columns = append(e.columns, Column{Property: property, Column: column})
	return e
}

// Entity finishes this entity and starts the next one.
func (e *EntityBuilder) Entity(sample any) *EntityBuilder {
	return e.builder.Entity(sample)
}

// Build builds the registry of the underlying [RegistryBuilder].
func (e *EntityBuilder) Build() (*Registry, error) {
	return e.builder.Build()
}

func (e *EntityBuilder) columnMap() (*ColumnMap, error) {
	if e.name == "" {
		return nil, fmt.Errorf("cannot map entity with no name")
	}
	m := &ColumnMap{
		entity:  e.name,
		table:   e.table,
		columns: make([]Column, 0, len(e.columns)),
		index:   make(map[string]string, len(e.columns)),
	}
	for _, col := range e.columns {
		if col.Property == "" {
			return nil, fmt.Errorf("entity %q: empty property name", e.name)
		}
		if !typeinfo.ValidColumnName(col.Column) {
			return nil, fmt.Errorf("entity %q: invalid column name %q for property %q", e.name, col.Column, col.Property)
		}
		if _, ok := m.index[col.Property]; ok {
			return nil, fmt.Errorf("entity %q: property %q mapped twice", e.name, col.Property)
		}
		m.index[col.Property] = col.Column
		m.columns = append(m.columns, col)
	}
	return m, nil
}

func entityType(sample any) reflect.Type {
	typ := reflect.TypeOf(sample)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

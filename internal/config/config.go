// Package config reads the YAML file describing entity to column mappings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Column maps one property to one column.
type Column struct {
	Property string `yaml:"property"`
	Column   string `yaml:"column"`
}

// Entity is the mapping of one entity. Columns are kept in file order.
type Entity struct {
	// Name is the key of the entity in the entities mapping.
	Name string `yaml:"-"`

	// Table is the default table for UPDATE statements. It is optional.
	Table string `yaml:"table,omitempty"`

	Columns []Column `yaml:"columns"`
}

// Entities is a YAML mapping of entity names to entities that keeps the order
// of the file.
type Entities []Entity

// UnmarshalYAML implements yaml.Unmarshaler for Entities.
func (e *Entities) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: entities must be a mapping", node.Line)
	}
	entities := make(Entities, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var ent Entity
		if err := value.Decode(&ent); err != nil {
			return fmt.Errorf("entity %q: %w", key.Value, err)
		}
		ent.Name = key.Value
		entities = append(entities, ent)
	}
	*e = entities
	return nil
}

// Mappings is the content of a mappings file.
type Mappings struct {
	Entities Entities `yaml:"entities"`
}

// Entity returns the entity called name.
func (m *Mappings) Entity(name string) (Entity, bool) {
	for _, ent := range m.Entities {
		if ent.Name == name {
			return ent, true
		}
	}
	return Entity{}, false
}

// Load decodes mappings from r. An empty document holds no entities.
func Load(r io.Reader) (*Mappings, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Mappings
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &Mappings{}, nil
		}
		return nil, fmt.Errorf("cannot decode mappings: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile decodes the mappings file at path.
func LoadFile(path string) (*Mappings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Mappings) validate() error {
	seen := make(map[string]bool, len(m.Entities))
	for _, ent := range m.Entities {
		if ent.Name == "" {
			return fmt.Errorf("entity with empty name")
		}
		if seen[ent.Name] {
			return fmt.Errorf("entity %q defined twice", ent.Name)
		}
		seen[ent.Name] = true
		for i, col := range ent.Columns {
			if col.Property == "" || col.Column == "" {
				return fmt.Errorf("entity %q: column %d: property and column must be set", ent.Name, i)
			}
		}
	}
	return nil
}

package typeinfo

import (
	"reflect"
)

// Field represents a single exported field from a struct type.
type Field struct {
	Type reflect.Type

	// Name is the name of the struct field.
	Name string

	// Index of this field in the structure.
	Index int

	// Tag is the column name from the field's "db" tag. It is empty for
	// fields without a tag.
	Tag string
}

// Info represents reflected information about a struct type.
type Info struct {
	Type reflect.Type

	// Fields lists the exported fields in declaration order.
	Fields []Field

	// Relate tag names to fields.
	TagToField map[string]Field

	// Relate field names to tags.
	FieldToTag map[string]string
}

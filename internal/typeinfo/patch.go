package typeinfo

import (
	"reflect"

	"github.com/pkg/errors"
)

// FieldValue is the value of a struct field read from a patch.
type FieldValue struct {
	// Name is the name of the struct field.
	Name string

	Value any
}

// PatchValues enumerates the exported fields of patch, which must be a struct
// or a pointer to a struct, in declaration order. Nil pointer fields are
// returned as untyped nil.
func PatchValues(patch any) ([]FieldValue, error) {
	v := reflect.ValueOf(patch)
	if isInvalidNil(v) {
		return nil, errors.New("need struct patch, got nil")
	}
	v = reflect.Indirect(v)
	if v.Kind() != reflect.Struct {
		return nil, errors.Errorf("need struct patch, got %s", v.Kind())
	}

	info, err := GetTypeInfoOf(v.Type())
	if err != nil {
		return nil, errors.Wrap(err, "cannot enumerate patch")
	}

	values := make([]FieldValue, 0, len(info.Fields))
	for _, f := range info.Fields {
		fv := v.Field(f.Index)
		var value any
		if !isInvalidNil(fv) {
			value = fv.Interface()
		}
		values = append(values, FieldValue{Name: f.Name, Value: value})
	}
	return values, nil
}

// IsZero reports whether v is nil or the zero value of its type.
func IsZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}

func isInvalidNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}

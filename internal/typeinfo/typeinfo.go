// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var cacheMutex sync.RWMutex
var cache = make(map[reflect.Type]*Info)

// GetTypeInfo will return the Info of the struct type of value, generating and
// caching as required. Pointers to structs are dereferenced.
func GetTypeInfo(value any) (*Info, error) {
	if value == (any)(nil) {
		return &Info{}, errors.New("cannot reflect nil value")
	}
	return GetTypeInfoOf(reflect.TypeOf(value))
}

// GetTypeInfoOf is the same as GetTypeInfo but takes the type directly.
func GetTypeInfoOf(typ reflect.Type) (*Info, error) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	cacheMutex.RLock()
	info, found := cache[typ]
	cacheMutex.RUnlock()
	if found {
		return info, nil
	}

	info, err := generate(typ)
	if err != nil {
		return &Info{}, err
	}

	cacheMutex.Lock()
	cache[typ] = info
	cacheMutex.Unlock()

	return info, nil
}

// generate produces and returns reflection information for the input struct
// type.
func generate(typ reflect.Type) (*Info, error) {
	// Reflection information is only generated for structs.
	if typ.Kind() != reflect.Struct {
		return &Info{}, errors.New("can only reflect struct type")
	}

	info := Info{
		TagToField: make(map[string]Field),
		FieldToTag: make(map[string]string),
		Type:       typ,
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		f := Field{
			Name:  field.Name,
			Index: i,
			Type:  field.Type,
		}
		if tag := field.Tag.Get("db"); tag != "" {
			name, err := parseTag(tag)
			if err != nil {
				return &Info{}, errors.Wrapf(err, "field %q of struct %q", field.Name, typ.Name())
			}
			if dup, ok := info.TagToField[name]; ok {
				return &Info{}, errors.Errorf("fields %q and %q of struct %q have the same db tag %q", dup.Name, field.Name, typ.Name(), name)
			}
			f.Tag = name
			info.TagToField[name] = f
			info.FieldToTag[field.Name] = name
		}
		info.Fields = append(info.Fields, f)
	}

	return &info, nil
}

// validColNameRx matches the column names accepted in "db" tags.
var validColNameRx = regexp.MustCompile(`^([a-zA-Z_])+([a-zA-Z_0-9])*$`)

// ValidColumnName reports whether name can be used as a column name.
func ValidColumnName(name string) bool {
	return validColNameRx.MatchString(name)
}

// parseTag parses the input tag string and returns its column name. The
// "omitempty" option is accepted so that structs shared with other db mappers
// can be registered, but it has no effect on the column mapping.
func parseTag(tag string) (string, error) {
	options := strings.Split(tag, ",")

	// Refuse to parse if there are more than 2 items.
	if len(options) > 2 {
		return "", errors.New("too many options in 'db' tag")
	}
	if len(options) == 2 && strings.ToLower(options[1]) != "omitempty" {
		return "", errors.Errorf("unexpected tag value %q", options[1])
	}

	name := options[0]
	if len(name) == 0 {
		return "", errors.New("empty db tag")
	}

	if !validColNameRx.MatchString(name) {
		return "", errors.New("invalid column name in 'db' tag")
	}

	return name, nil
}

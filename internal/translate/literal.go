package translate

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Null is the literal emitted for null values.
const Null = "NULL"

// TimeLayout is the layout of date-time literals, without the quotes.
const TimeLayout = "2006-01-02 15:04:05.000"

// Literal renders v as SQL literal text.
//
// Strings and byte slices are quoted verbatim. They are NOT escaped: a value
// containing a single quote produces broken or injected SQL. Callers must not
// pass untrusted text through this package.
func Literal(v any) string {
	if v == nil {
		return Null
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null
		}
		return Literal(rv.Elem().Interface())
	}

	switch v := v.(type) {
	case string:
		return quote(v)
	case time.Time:
		return quote(v.Format(TimeLayout))
	case uuid.UUID:
		return quote(v.String())
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return fmt.Sprint(v)
		}
		return Literal(dv)
	}

	switch {
	case rv.Kind() == reflect.String:
		return quote(rv.String())
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
		if rv.IsNil() {
			return Null
		}
		return quote(string(rv.Bytes()))
	}
	return fmt.Sprint(v)
}

func quote(s string) string {
	return "'" + s + "'"
}

package assert

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var objectOptions = []cmp.Option{
	cmpopts.EquateNaNs(),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// ObjectEquals checks that two maps or structs are deeply equal.
// Map key order never matters and NaN equals NaN.
func ObjectEquals(actual, expected any, message ...string) error {
	if !isObject(actual) || !isObject(expected) {
		return fmt.Errorf("Both arguments must be non-null objects. Got %s and %s. For array comparison, use ArrayEquals.",
			typeName(actual), typeName(expected))
	}
	if !cmp.Equal(actual, expected, objectOptions...) {
		return fmt.Errorf("%sObjects are not equal. Expected: %s, Actual: %s", prefix(message), toJSON(expected), toJSON(actual))
	}
	return nil
}

// ObjectNotEquals checks that two maps or structs differ
func ObjectNotEquals(actual, expected any, message ...string) error {
	if !isObject(actual) || !isObject(expected) {
		return fmt.Errorf("Both arguments must be non-null objects. Got %s and %s. For array comparison, use ArrayNotEquals.",
			typeName(actual), typeName(expected))
	}
	if cmp.Equal(actual, expected, objectOptions...) {
		return fmt.Errorf("%sObjects are equal. Expected not to be: %s", prefix(message), toJSON(expected))
	}
	return nil
}

func isObject(v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		return !rv.IsNil()
	case reflect.Struct:
		return true
	}
	return false
}

func typeName(v any) string {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return "null"
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "null"
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		if rv.IsNil() {
			return "null"
		}
		return "object"
	case reflect.Struct:
		return "object"
	case reflect.Func:
		return "function"
	}
	return rv.Kind().String()
}

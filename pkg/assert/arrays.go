package assert

import (
	"errors"
	"fmt"
	"reflect"
)

// ArrayEquals checks that two slices or arrays hold the same elements in the same order.
// Nested slices are compared element-wise, reference values (maps, pointers, funcs,
// channels) by identity, and NaN never equals NaN.
func ArrayEquals(actual, expected any, message ...string) error {
	a, e, err := arrayArgs(actual, expected)
	if err != nil {
		return err
	}
	if !arraysEqual(a, e) {
		return fmt.Errorf("%sArrays are not equal. Expected: %s, Actual: %s", prefix(message), toJSON(expected), toJSON(actual))
	}
	return nil
}

// ArrayNotEquals checks that two slices or arrays differ
func ArrayNotEquals(actual, expected any, message ...string) error {
	a, e, err := arrayArgs(actual, expected)
	if err != nil {
		return err
	}
	if arraysEqual(a, e) {
		return fmt.Errorf("%sArrays are equal. Expected not to be: %s", prefix(message), toJSON(expected))
	}
	return nil
}

func arrayArgs(actual, expected any) (reflect.Value, reflect.Value, error) {
	a, okA := arrayValue(actual)
	e, okE := arrayValue(expected)
	if !okA || !okE {
		return reflect.Value{}, reflect.Value{}, errors.New("Both arguments must be arrays.")
	}
	return a, e, nil
}

func arrayValue(v any) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return rv, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, true
	}
	return rv, false
}

func arraysEqual(a, e reflect.Value) bool {
	if a.Len() != e.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !elementsEqual(a.Index(i), e.Index(i)) {
			return false
		}
	}
	return true
}

func elementsEqual(x, y reflect.Value) bool {
	x, y = unwrap(x), unwrap(y)
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}

	xArr := x.Kind() == reflect.Slice || x.Kind() == reflect.Array
	yArr := y.Kind() == reflect.Slice || y.Kind() == reflect.Array
	if xArr || yArr {
		return xArr && yArr && arraysEqual(x, y)
	}

	if x.Type() != y.Type() {
		return false
	}

	switch x.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return x.Pointer() == y.Pointer()
	case reflect.Float32, reflect.Float64:
		return x.Float() == y.Float()
	case reflect.Struct:
		return reflect.DeepEqual(x.Interface(), y.Interface())
	}

	if x.CanInterface() && y.CanInterface() && x.Type().Comparable() {
		return x.Interface() == y.Interface()
	}
	return reflect.DeepEqual(x.Interface(), y.Interface())
}

func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v
}

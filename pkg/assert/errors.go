package assert

import (
	"fmt"
	"reflect"
	"strings"

	"ntr/internal/domain"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ShouldFail checks that fn fails, by returning an error or panicking. When an
// expected message is given the failure message must match it exactly.
func ShouldFail(fn func() error, expectedMessage ...string) error {
	if fn == nil {
		return domain.NewRunnerError("Invalid Arguments: fn must be a function.")
	}

	expected := firstNonEmpty(expectedMessage)
	err := callSafely(fn)
	if err != nil {
		return matchFailure(err, expected)
	}

	if expected != "" {
		return domain.NewExpectedError("Expected function to throw an error with message %q but it did not throw.", expected)
	}
	return domain.NewExpectedError("Function call should have thrown an Error.")
}

// ShouldFailWithArgs calls fn with args and checks that it fails. fn may return
// any values; a non-nil trailing error or a panic counts as failure.
func ShouldFailWithArgs(fn any, args []any, expectedMessage ...string) error {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return domain.NewRunnerError("Invalid Arguments: fn must be a function.")
	}

	in, err := callArgs(fv.Type(), args)
	if err != nil {
		return err
	}

	expected := firstNonEmpty(expectedMessage)
	callErr := callSafely(func() error {
		out := fv.Call(in)
		if n := len(out); n > 0 && fv.Type().Out(n-1) == errorType && !out[n-1].IsNil() {
			return out[n-1].Interface().(error)
		}
		return nil
	})
	if callErr != nil {
		return matchFailure(callErr, expected)
	}

	argsString := formatArgs(args)
	if expected != "" {
		return domain.NewExpectedError("Expected function to throw an error with message %q when called with args [%s] but it did not throw.", expected, argsString)
	}
	return domain.NewExpectedError("Function call with args [%s] should have thrown an Error.", argsString)
}

func callArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, domain.NewRunnerError("Invalid Arguments: fn expects at least %d arguments, got %d.", numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, domain.NewRunnerError("Invalid Arguments: fn expects %d arguments, got %d.", numIn, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= numIn-1 {
			pt = ft.In(numIn - 1).Elem()
		} else {
			pt = ft.In(i)
		}

		if arg == nil {
			switch pt.Kind() {
			case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
				in[i] = reflect.Zero(pt)
				continue
			}
			return nil, domain.NewRunnerError("Invalid Arguments: argument %d is nil, fn expects %s.", i, pt)
		}

		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, domain.NewRunnerError("Invalid Arguments: argument %d is %s, fn expects %s.", i, av.Type(), pt)
		}
		in[i] = av
	}
	return in, nil
}

// callSafely turns a panic inside fn into an error
func callSafely(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", v)
		}
	}()
	return fn()
}

func matchFailure(err error, expected string) error {
	if expected != "" && err.Error() != expected {
		return domain.NewExpectedError("Expected error message %q but got %q", expected, err.Error())
	}
	return nil
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, ", ")
}

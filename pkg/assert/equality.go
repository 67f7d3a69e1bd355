package assert

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"ntr/internal/domain"
)

// Equals checks that two literal values (bool, string or number of the same type) are equal.
// The failure reads "<message> \nexpected: X actual: Y ", the message line only when given.
func Equals(expected, actual any, message ...string) error {
	if err := checkLiterals(expected, actual); err != nil {
		return err
	}
	if expected != actual {
		return fmt.Errorf("%sexpected: %v actual: %v ", heading(message), expected, actual)
	}
	return nil
}

// NotEquals checks that two literal values of the same type differ
func NotEquals(expected, actual any, message ...string) error {
	if err := checkLiterals(expected, actual); err != nil {
		return err
	}
	if expected == actual {
		return fmt.Errorf("%sexpected values to differ, both are: %v ", heading(message), actual)
	}
	return nil
}

// Contains checks that s contains substr
func Contains(s, substr string, message ...string) error {
	if !strings.Contains(s, substr) {
		return fmt.Errorf("%sexpected %q to contain %q", prefix(message), s, substr)
	}
	return nil
}

func checkLiterals(expected, actual any) error {
	if !isLiteral(expected) || !isLiteral(actual) {
		return domain.NewRunnerError("Invalid argument")
	}
	if reflect.TypeOf(expected) != reflect.TypeOf(actual) {
		return domain.NewRunnerError("Invalid argument")
	}
	return nil
}

func isLiteral(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// heading puts the caller's message on a line of its own
func heading(message []string) string {
	for _, m := range message {
		if m != "" {
			return m + " \n"
		}
	}
	return ""
}

func prefix(message []string) string {
	for _, m := range message {
		if m != "" {
			return m + ": "
		}
	}
	return ""
}

// toJSON renders a value for failure messages, falling back to %v
// for values encoding/json rejects (NaN, funcs, channels)
func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

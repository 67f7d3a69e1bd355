package assert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayEquals(t *testing.T) {
	shared := map[string]int{"a": 1}

	tests := []struct {
		name     string
		actual   any
		expected any
		equal    bool
	}{
		{"same elements", []int{1, 2, 3}, []int{1, 2, 3}, true},
		{"different order", []int{1, 2, 3}, []int{3, 2, 1}, false},
		{"different length", []int{1, 2}, []int{1, 2, 3}, false},
		{"nested", []any{1, []any{2, 3}}, []any{1, []any{2, 3}}, true},
		{"nested mismatch", []any{1, []any{2, 3}}, []any{1, []any{2, 4}}, false},
		{"array and slice", [2]string{"a", "b"}, []string{"a", "b"}, true},
		{"same map identity", []any{shared}, []any{shared}, true},
		{"equal maps different identity", []any{map[string]int{"a": 1}}, []any{map[string]int{"a": 1}}, false},
		{"NaN elements", []float64{math.NaN()}, []float64{math.NaN()}, false},
		{"mixed types", []any{1}, []any{"1"}, false},
		{"nil elements", []any{nil, 1}, []any{nil, 1}, true},
		{"empty", []int{}, []int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ArrayEquals(tt.actual, tt.expected)
			if tt.equal {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestArrayEqualsMessage(t *testing.T) {
	err := ArrayEquals([]int{1, 2}, []int{1, 3}, "numbers")
	require.Error(t, err)
	assert.Equal(t, "numbers: Arrays are not equal. Expected: [1,3], Actual: [1,2]", err.Error())
}

func TestArrayEqualsRequiresArrays(t *testing.T) {
	err := ArrayEquals(1, []int{1})
	require.Error(t, err)
	assert.Equal(t, "Both arguments must be arrays.", err.Error())

	err = ArrayEquals(nil, nil)
	require.Error(t, err)
}

func TestArrayNotEquals(t *testing.T) {
	assert.NoError(t, ArrayNotEquals([]int{1}, []int{2}))
	assert.Error(t, ArrayNotEquals([]int{1}, []int{1}))
}

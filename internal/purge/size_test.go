package purge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueSize(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
	}{
		{"ascii string", "abc", 3},
		{"multibyte string", "ñ", 2},
		{"bytes", []byte{1, 2, 3, 4}, 4},
		{"string list", []string{"ab", "cde"}, 5},
		{"nested list", []any{"ab", []any{"c", 42}}, 3},
		{"map", map[string]any{"a": "xy", "b": true}, 2},
		{"int", 12345, 0},
		{"float", 1.5, 0},
		{"bool", true, 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueSize(tt.value))
		})
	}
}

func TestDictionarySize(t *testing.T) {
	d := fakeDict{"a": "1234", "b": []any{"56"}, "c": 7}
	assert.Equal(t, int64(6), DictionarySize(d))
}

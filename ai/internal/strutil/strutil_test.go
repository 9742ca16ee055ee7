package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"empty string", "", 10, ""},
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 5, "hello..."},
		{"zero maxLen", "hello", 0, ""},
		{"negative maxLen", "hello", -1, ""},
		{"chinese exact", "奢侈品包", 4, "奢侈品包"},
		{"chinese truncated", "奢侈品包包價格", 4, "奢侈品包..."},
		{"mixed unicode", "a價b格c", 3, "a價b..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.maxLen))
		})
	}
}

func TestHead(t *testing.T) {
	assert.Equal(t, "", Head("abc", 0))
	assert.Equal(t, "ab", Head("abc", 2))
	assert.Equal(t, "abc", Head("abc", 10))
	assert.Equal(t, "價格", Head("價格€4900", 2))
}

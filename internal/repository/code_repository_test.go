package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain term is unchanged",
			input:    "90210",
			expected: "90210",
		},
		{
			name:     "Percent is escaped",
			input:    "100%",
			expected: `100\%`,
		},
		{
			name:     "Underscore is escaped",
			input:    "A_1",
			expected: `A\_1`,
		},
		{
			name:     "Backslash is escaped",
			input:    `C:\zip`,
			expected: `C:\\zip`,
		},
		{
			name:     "Mixed metacharacters",
			input:    `50%_off\`,
			expected: `50\%\_off\\`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeLike(tt.input))
		})
	}
}

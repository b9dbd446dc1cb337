package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatKz(t *testing.T) {
	tests := []struct{ in, want string }{
		{"0.00", "0,00 Kz"},
		{"999.50", "999,50 Kz"},
		{"7100.00", "7.100,00 Kz"},
		{"1234567.89", "1.234.567,89 Kz"},
		{"-2500.00", "-2.500,00 Kz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatKz(tt.in), tt.in)
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "#ABCDEF12", shortID("abcdef12-3456-7890"))
	assert.Equal(t, "#T1", shortID("t1"))
}

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback int
		want     int
		ok       bool
	}{
		{"valid", "3", 1, 3, true},
		{"with spaces", " 12 ", 1, 12, true},
		{"empty uses fallback", "", 7, 7, false},
		{"zero uses fallback", "0", 7, 7, false},
		{"negative uses fallback", "-4", 7, 7, false},
		{"garbage uses fallback", "abc", 7, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePositiveInt(tt.value, tt.fallback)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"transitdash/pkg/contracts/domain"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0.00"},
		{13.4, "13.40"},
		{12345.678, "12345.68"},
		{-1.005, "-1.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatFloat(tt.input))
	}
}

func TestFormatOptional(t *testing.T) {
	assert.Equal(t, "", formatOptional(nil))
	assert.Equal(t, "6.50", formatOptional(domain.Float(6.5)))
}

package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/measurebook/models"
)

func sheet(values map[string]string) models.Measurements {
	var m models.Measurements
	for letter, v := range values {
		m.Entry(letter).New = v
	}
	return m
}

func TestMeasurements(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]string
		expected []string // substrings, one per expected warning, in order
	}{
		{
			name:     "empty sheet",
			values:   map[string]string{},
			expected: nil,
		},
		{
			name:     "typical width and depth",
			values:   map[string]string{"A": "50", "B": "50"},
			expected: nil,
		},
		{
			name:     "narrow width",
			values:   map[string]string{"A": "20"},
			expected: []string{"Width (A) of 20\""},
		},
		{
			name:     "inclusive bounds",
			values:   map[string]string{"A": "28", "B": "72", "D": "120"},
			expected: nil,
		},
		{
			name:     "deep and short",
			values:   map[string]string{"B": "72.5", "D": "71"},
			expected: []string{"Depth (B) of 72.5\"", "Height (D) of 71\""},
		},
		{
			name:     "right corner within allowance",
			values:   map[string]string{"B": "50", "C": "57"},
			expected: nil,
		},
		{
			name:     "right corner past allowance",
			values:   map[string]string{"B": "50", "C": "58"},
			expected: []string{"Right corner exceeds depth"},
		},
		{
			name:     "right corner six inches past",
			values:   map[string]string{"B": "50", "C": "56"},
			expected: nil,
		},
		{
			name:     "fractional corner past allowance",
			values:   map[string]string{"B": "50", "C": "57.75"},
			expected: []string{"Right corner exceeds depth"},
		},
		{
			name:     "surrounds and left corner at the boundary",
			values:   map[string]string{"B": "50", "C2": "57", "E": "57", "E2": "57"},
			expected: nil,
		},
		{
			name:     "right surround past allowance",
			values:   map[string]string{"B": "50", "C2": "58"},
			expected: []string{"Right surround exceeds depth"},
		},
		{
			name:     "left corner past allowance",
			values:   map[string]string{"B": "50", "E": "58"},
			expected: []string{"Left corner exceeds depth"},
		},
		{
			name:     "left surround past allowance",
			values:   map[string]string{"B": "50", "E2": "58"},
			expected: []string{"Left surround exceeds depth"},
		},
		{
			name:     "inch mark suffix",
			values:   map[string]string{"A": "20\""},
			expected: []string{"Width (A) of 20\""},
		},
		{
			name:     "unit suffix",
			values:   map[string]string{"A": "20in", "D": "70 inches"},
			expected: []string{"Width (A) of 20\"", "Height (D) of 70\""},
		},
		{
			name:     "mixed fraction reads the whole inches",
			values:   map[string]string{"B": "48 1/2", "C": "56 1/4"},
			expected: []string{"Right corner exceeds depth"},
		},
		{
			name:     "leading decimal point",
			values:   map[string]string{"A": ".5"},
			expected: []string{"Width (A) of 0.5\""},
		},
		{
			name:     "corner without depth is not checked",
			values:   map[string]string{"C": "99"},
			expected: nil,
		},
		{
			name:     "all corners past allowance",
			values:   map[string]string{"B": "40", "C": "48", "C2": "48", "E": "48", "E2": "48"},
			expected: []string{"Right corner exceeds depth", "Right surround exceeds depth", "Left corner exceeds depth", "Left surround exceeds depth"},
		},
		{
			name:     "non-numeric values are skipped",
			values:   map[string]string{"A": "wide", "B": " ", "D": "abc"},
			expected: nil,
		},
		{
			name:     "surrounding whitespace is tolerated",
			values:   map[string]string{"A": " 10 "},
			expected: []string{"Width (A) of 10\""},
		},
		{
			name:     "bad depth disables corner rules but not width",
			values:   map[string]string{"A": "80", "B": "NaN", "C": "200"},
			expected: []string{"Width (A) of 80\""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Measurements(sheet(tt.values))
			require.Len(t, got, len(tt.expected), "warnings: %v", got)
			for i, want := range tt.expected {
				assert.Contains(t, got[i], want)
			}
		})
	}
}

func TestMeasurementsMentionsValue(t *testing.T) {
	got := Measurements(sheet(map[string]string{"A": "20"}))
	require.Len(t, got, 1)
	assert.True(t, strings.Contains(got[0], "20"))
}

func TestMeasurementsIdempotent(t *testing.T) {
	m := sheet(map[string]string{"A": "10", "B": "50", "C": "70", "D": "200"})

	first := Measurements(m)
	second := Measurements(m)

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestMeasurementsIgnoresExistingColumn(t *testing.T) {
	var m models.Measurements
	m.A.Existing = "5"
	m.B.Existing = "500"

	assert.Empty(t, Measurements(m))
}

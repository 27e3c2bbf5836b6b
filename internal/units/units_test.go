package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		hasError bool
	}{
		{"metric", "metric", false},
		{"FIELD", "field", false},
		{"imperial", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sys, err := Lookup(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, sys.Name())
		})
	}
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "m", Metric.Symbol(ThicknessDepth))
	assert.Equal(t, "ft", Field.Symbol(ThicknessDepth))
	assert.Equal(t, "ma", Field.Symbol(GeologicalTimescale))
	assert.Equal(t, "", Metric.Symbol(General), "general template has no symbol")
	assert.Equal(t, "", Metric.Symbol(Template("unknown")))
}

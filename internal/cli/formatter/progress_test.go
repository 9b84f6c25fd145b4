package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderCompactBar(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		width int
		dim   bool
	}{
		{"0% normal", 0, 10, false},
		{"50% normal", 50, 10, false},
		{"100% normal", 100, 10, false},
		{"50% dimmed", 50, 10, true},
		{"over 100% clamps", 150, 10, false},
		{"negative clamps", -50, 10, false},
		{"tiny width clamps to 2", 50, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderCompactBar(tt.pct, tt.width, tt.dim)
			assert.NotEmpty(t, got)
			assert.NotContains(t, got, "[")
			assert.NotContains(t, got, "%")
		})
	}
}

func TestRenderCompactBarBlocks(t *testing.T) {
	assert.Equal(t, strings.Repeat(emptyBlock, 4), RenderCompactBar(0, 4, true))
	assert.Equal(t, strings.Repeat(filledBlock, 4), RenderCompactBar(100, 4, true))
	assert.Equal(t, strings.Repeat(filledBlock, 5)+strings.Repeat(emptyBlock, 3), RenderCompactBar(62.5, 8, true))
}

func TestRenderProgress_ShowsOneDecimal(t *testing.T) {
	out := stripANSI(RenderProgress(62.5, 8))
	assert.Equal(t, "[█████░░░]  62.5%", out)
	assert.Contains(t, stripANSI(RenderProgress(250, 4)), "100.0%")
}

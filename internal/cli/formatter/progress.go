package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// pct is a percentage from 0 to 100. The bar is green from 70%, yellow from
// 40% and red below.
func RenderProgress(pct float64, width int) string {
	pct = clampPct(pct)
	style := StyleGreen
	switch {
	case pct < 40:
		style = StyleRed
	case pct < 70:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %5.1f%%", style.Render(bar(pct, width)), pct)
}

// RenderCompactBar renders the bar alone with no brackets or label.
func RenderCompactBar(pct float64, width int, dim bool) string {
	b := bar(clampPct(pct), width)
	if dim {
		return b
	}
	return StyleBlue.Render(b)
}

func bar(pct float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

func clampPct(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

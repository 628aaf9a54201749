package cli

import (
	"fmt"
	"math"
	"strings"

	"optionlab/internal/models"
)

const (
	defaultChartWidth  = 60
	defaultChartHeight = 15
	chartLabelWidth    = 10
)

// RenderChart draws curve as an ASCII plot. The zero line is drawn with '─'
// and samples with '*'. Columns are resampled from the curve when it has
// more points than width.
func RenderChart(curve []models.PayoffPoint, width, height int) []string {
	if len(curve) == 0 {
		return nil
	}
	if width < 2 {
		width = 2
	}
	if height < 3 {
		height = 3
	}

	lo, hi := 0.0, 0.0
	for _, p := range curve {
		lo = math.Min(lo, p.Payoff)
		hi = math.Max(hi, p.Payoff)
	}
	if hi == lo {
		hi = lo + 1
	}
	rowOf := func(v float64) int {
		return int(math.Round((hi - v) / (hi - lo) * float64(height-1)))
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	zero := rowOf(0)
	for c := 0; c < width; c++ {
		grid[zero][c] = '─'
	}

	n := len(curve)
	for c := 0; c < width; c++ {
		idx := c * (n - 1) / (width - 1)
		grid[rowOf(curve[idx].Payoff)][c] = '*'
	}

	lines := make([]string, 0, height+2)
	for r, row := range grid {
		label := ""
		switch r {
		case 0:
			label = fmt.Sprintf("%.0f", hi)
		case zero:
			label = "0"
		case height - 1:
			label = fmt.Sprintf("%.0f", lo)
		}
		lines = append(lines, fmt.Sprintf("%*s │%s", chartLabelWidth, label, string(row)))
	}

	lines = append(lines, strings.Repeat(" ", chartLabelWidth)+" └"+strings.Repeat("─", width))

	first, last := FormatPrice(curve[0].Price), FormatPrice(curve[n-1].Price)
	mid := FormatPrice(curve[(n-1)/2].Price)
	gap := width - len(first) - len(mid) - len(last)
	var axis string
	if gap >= 2 {
		left := (width-len(mid))/2 - len(first)
		if left < 1 {
			left = 1
		}
		right := width - len(first) - left - len(mid) - len(last)
		if right < 1 {
			right = 1
		}
		axis = first + strings.Repeat(" ", left) + mid + strings.Repeat(" ", right) + last
	} else {
		axis = first + " … " + last
	}
	lines = append(lines, strings.Repeat(" ", chartLabelWidth+2)+axis)

	return lines
}

// ABOUTME: Sparkline widget renders mini trend charts using block characters
// ABOUTME: The audit screen uses it for recent mutation latencies

package widgets

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the block characters from lowest to highest
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values (most recent last) into width characters
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := resample(values, width)
	lo, hi := sampled[0], sampled[0]
	for _, v := range sampled {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := make([]rune, len(sampled))
	for i, v := range sampled {
		out[i] = blockFor(v, lo, hi)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(out))
}

// DurationSeries converts durations to milliseconds for Sparkline
func DurationSeries(ds []time.Duration) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = float64(d) / float64(time.Millisecond)
	}
	return out
}

// resample keeps the most recent values when there are too many and
// left-pads with zeros when there are too few
func resample(values []float64, width int) []float64 {
	switch {
	case len(values) == width:
		return values
	case len(values) > width:
		return values[len(values)-width:]
	default:
		out := make([]float64, width)
		copy(out[width-len(values):], values)
		return out
	}
}

func blockFor(v, lo, hi float64) rune {
	if hi == lo {
		return SparklineBlocks[len(SparklineBlocks)/2]
	}
	idx := int((v - lo) / (hi - lo) * float64(len(SparklineBlocks)-1))
	idx = min(max(idx, 0), len(SparklineBlocks)-1)
	return SparklineBlocks[idx]
}

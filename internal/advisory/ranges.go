package advisory

import (
	"github.com/i474232898/harvest-advisor/internal/cannabis"
)

// Range is an inclusive optimal window.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// OptimalRanges are the per-dimension optimal windows for a stage and variety.
type OptimalRanges struct {
	Temperature Range `json:"temperature"`
	Humidity    Range `json:"humidity"`
	UV          Range `json:"uv_index"`
}

var stageRanges = map[cannabis.Stage]OptimalRanges{
	cannabis.Early: {Temperature: Range{20, 28}, Humidity: Range{40, 60}, UV: Range{3, 6}},
	cannabis.Mid:   {Temperature: Range{18, 26}, Humidity: Range{40, 55}, UV: Range{3, 6}},
	cannabis.Late:  {Temperature: Range{18, 24}, Humidity: Range{35, 50}, UV: Range{2, 5}},
}

// RangesFor returns the optimal windows for stage, adjusted for the variety type
// (empty when unknown) and shifted for late flowering.
func RangesFor(stage cannabis.Stage, vt cannabis.VarietyType) OptimalRanges {
	r, ok := stageRanges[stage]
	if !ok {
		r = stageRanges[cannabis.Mid]
	}

	switch vt {
	case cannabis.Sativa:
		r.Temperature.Min += 1
		r.Temperature.Max += 2
		r.Humidity.Min += 2
		r.Humidity.Max += 3
	case cannabis.Indica:
		r.Temperature.Min -= 1
		r.Temperature.Max -= 1
		r.Humidity.Max -= 3
		if stage == cannabis.Late {
			r.Humidity.Max -= 5 // dense late colas are mould-prone
		}
	}

	if stage == cannabis.Late {
		r.Temperature.Min -= 1
		r.Temperature.Max -= 2
		r.Humidity.Min -= 2
		r.Humidity.Max -= 3
		r.UV.Max += 1
	}
	return r
}

// bands are distances outside a Range at which each level starts. The lower and
// upper distances differ per dimension and are kept as tuned.
type bands struct {
	criticalBelow, criticalAbove float64
	negativeBelow, negativeAbove float64
	neutralBelow, neutralAbove   float64
}

var (
	temperatureBands = bands{6, 6, 3, 4, 1, 2}
	humidityBands    = bands{15, 15, 8, 10, 3, 5}
	uvBands          = bands{3, 4, 2, 3, 1, 1}
)

func classifyValue(v float64, r Range, b bands) ImpactLevel {
	switch {
	case v < r.Min-b.criticalBelow || v > r.Max+b.criticalAbove:
		return Critical
	case v < r.Min-b.negativeBelow || v > r.Max+b.negativeAbove:
		return Negative
	case v < r.Min-b.neutralBelow || v > r.Max+b.neutralAbove:
		return Neutral
	default:
		return Positive
	}
}

package ripeness

import (
	"math"

	"github.com/i474232898/harvest-advisor/internal/common"
)

// Defaults applied to incomplete analysis output.
const (
	DefaultLevel      = Mid
	DefaultConfidence = 0.5

	// renormalizeTolerance is how far the trichome shares may stray from 100 before rescaling.
	renormalizeTolerance = 2.0
)

// DefaultMicroscopic is the split assumed when microscopic data was requested but is missing.
var DefaultMicroscopic = Microscopic{Clear: 33, Milky: 33, Amber: 34}

// Raw is the image-analysis output as received, with every field optional.
type Raw struct {
	Level           string          `json:"ripeness_level"`
	Confidence      *float64        `json:"confidence"`
	Characteristics Characteristics `json:"characteristics"`
	Microscopic     *RawMicroscopic `json:"microscopic"`
	Harvest         *RawHarvest     `json:"harvest_estimate"`
	Recommendations []string        `json:"recommendations"`
}

// RawMicroscopic is a trichome breakdown whose parts may be absent.
type RawMicroscopic struct {
	Clear *float64 `json:"clear_trichomes"`
	Milky *float64 `json:"milky_trichomes"`
	Amber *float64 `json:"amber_trichomes"`
}

// RawHarvest is an unvalidated harvest estimate.
type RawHarvest struct {
	DaysToHarvest      *int   `json:"days_to_harvest"`
	OptimalHarvestDate string `json:"optimal_harvest_date"`
	HarvestWindow      string `json:"harvest_window"`
}

// Normalize applies the documented defaults to raw. When wantMicroscopic is set
// and no breakdown was reported, DefaultMicroscopic is used.
func Normalize(raw Raw, wantMicroscopic bool) Result {
	res := Result{
		Level:           DefaultLevel,
		Confidence:      DefaultConfidence,
		Characteristics: raw.Characteristics,
		Recommendations: raw.Recommendations,
	}

	if lvl, err := ParseLevel(raw.Level); err == nil {
		res.Level = lvl
	}
	if raw.Confidence != nil && !math.IsNaN(*raw.Confidence) {
		res.Confidence = math.Max(0, math.Min(1, *raw.Confidence))
	}

	switch {
	case raw.Microscopic != nil:
		m := RenormalizeMicroscopic(Microscopic{
			Clear: deref(raw.Microscopic.Clear),
			Milky: deref(raw.Microscopic.Milky),
			Amber: deref(raw.Microscopic.Amber),
		})
		res.Microscopic = &m
	case wantMicroscopic:
		m := DefaultMicroscopic
		res.Microscopic = &m
	}

	if raw.Harvest != nil && raw.Harvest.DaysToHarvest != nil {
		res.Harvest = &HarvestEstimate{
			DaysToHarvest:      max(*raw.Harvest.DaysToHarvest, 0),
			OptimalHarvestDate: raw.Harvest.OptimalHarvestDate,
			HarvestWindow:      raw.Harvest.HarvestWindow,
		}
	}
	return res
}

// RenormalizeMicroscopic clamps negative shares to zero and, when the total is
// more than a couple of points away from 100, rescales the shares proportionally.
// An all-zero breakdown becomes DefaultMicroscopic.
func RenormalizeMicroscopic(m Microscopic) Microscopic {
	m.Clear = nonNegative(m.Clear)
	m.Milky = nonNegative(m.Milky)
	m.Amber = nonNegative(m.Amber)

	sum := m.Sum()
	if sum == 0 {
		return DefaultMicroscopic
	}
	if math.Abs(sum-100) <= renormalizeTolerance {
		return m
	}

	scale := 100 / sum
	return Microscopic{
		Clear: common.Round1(m.Clear * scale),
		Milky: common.Round1(m.Milky * scale),
		Amber: common.Round1(m.Amber * scale),
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

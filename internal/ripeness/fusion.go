package ripeness

import (
	"fmt"
	"math"

	"github.com/i474232898/harvest-advisor/internal/harvestdate"
)

// Fusion weights; trichome evidence counts more than gross visual cues.
const (
	generalWeight     = 0.4
	microscopicWeight = 0.6
)

// Fuser reconciles a general-photo result with a microscopic trichome result.
type Fuser struct {
	dates *harvestdate.Sanitizer
}

// NewFuser returns a Fuser that formats harvest dates with s.
func NewFuser(s *harvestdate.Sanitizer) *Fuser {
	if s == nil {
		s = harvestdate.New(nil)
	}
	return &Fuser{dates: s}
}

// Fuse combines general and microscopic into one result. On disagreement the
// microscopic level wins. A harvest estimate is only re-derived when the general
// result carries one; microscopic data never fabricates an estimate.
func (f *Fuser) Fuse(general, microscopic Result) Result {
	out := general
	out.AdditionalNotes = append([]string(nil), general.AdditionalNotes...)

	if general.Level != microscopic.Level {
		out.Level = microscopic.Level
		out.AdditionalNotes = append(out.AdditionalNotes, fmt.Sprintf(
			"general photo suggests %s (trichomes: %s); microscopic analysis indicates %s (trichomes: %s)",
			general.Level, orUnknown(general.Characteristics.Trichomes),
			microscopic.Level, orUnknown(microscopic.Characteristics.Trichomes)))
	}

	out.Confidence = generalWeight*general.Confidence + microscopicWeight*microscopic.Confidence

	breakdown := DefaultMicroscopic
	if microscopic.Microscopic != nil {
		breakdown = RenormalizeMicroscopic(*microscopic.Microscopic)
	}
	out.Microscopic = &breakdown

	out.Recommendations = mergeUnique(general.Recommendations, microscopic.Recommendations)

	if general.Harvest != nil {
		est := *general.Harvest
		days := AdjustDaysForAmber(est.DaysToHarvest, breakdown.Amber)
		if days != est.DaysToHarvest {
			est.DaysToHarvest = days
			est.HarvestWindow = WindowText(days)
		}
		est.OptimalHarvestDate = f.dates.Fallback(days)
		out.Harvest = &est
	}
	return out
}

// AdjustDaysForAmber shortens the days to harvest as amber trichomes accumulate.
func AdjustDaysForAmber(days int, amberPct float64) int {
	switch {
	case amberPct > 30:
		return 0
	case amberPct > 20:
		return int(math.Floor(float64(days) * 0.5))
	case amberPct > 10:
		return int(math.Floor(float64(days) * 0.8))
	default:
		return days
	}
}

// WindowText describes the harvest window for a day count.
func WindowText(days int) string {
	switch {
	case days <= 0:
		return "harvest now"
	case days <= 3:
		return fmt.Sprintf("within the next %d days", days)
	default:
		return fmt.Sprintf("between %d and %d days from today", max(days-2, 1), days+2)
	}
}

func mergeUnique(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string(nil), a...), b...) {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "not described"
	}
	return s
}

package ripeness

import (
	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/harvestdate"
)

// Estimate builds a harvest estimate for a plant of variety v at level, scaled by pref.
func Estimate(level Level, v cannabis.Variety, pref cannabis.HarvestPreference, dates *harvestdate.Sanitizer) HarvestEstimate {
	days := cannabis.DaysToHarvest(level.Stage(), v, pref)
	return HarvestEstimate{
		DaysToHarvest:      days,
		OptimalHarvestDate: dates.Fallback(days),
		HarvestWindow:      WindowText(days),
	}
}

// Complete fills in and sanitizes the harvest estimate of res. Analysis-provided
// dates are checked with the estimate's day count as the fallback offset. When no
// estimate was provided and a variety is known, one is computed from it.
func Complete(res Result, v *cannabis.Variety, pref cannabis.HarvestPreference, dates *harvestdate.Sanitizer) Result {
	switch {
	case res.Harvest != nil:
		est := *res.Harvest
		est.OptimalHarvestDate = dates.EnsureFutureDate(est.OptimalHarvestDate, est.DaysToHarvest)
		if est.HarvestWindow == "" {
			est.HarvestWindow = WindowText(est.DaysToHarvest)
		}
		res.Harvest = &est
	case v != nil:
		est := Estimate(res.Level, *v, pref, dates)
		res.Harvest = &est
	}
	return res
}

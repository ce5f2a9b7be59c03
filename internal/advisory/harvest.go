package advisory

import (
	"encoding/json"
	"fmt"

	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

// LegacyHarvestNow is the day offset older clients used to mean "harvest now".
const LegacyHarvestNow = -999

const (
	adjustForecastDays = 7

	riskHumidity   = 70.0
	riskHeatTemp   = 30.0
	riskColdTemp   = 15.0
	riskRainChance = 60.0

	earlyFloor = -3
	midFloor   = -5

	energeticShift = -2
	relaxingShift  = 3
)

// Adjustment is either a signed day shift of the harvest date or an instruction
// to harvest now. The zero value is a shift of 0 days.
type Adjustment struct {
	days int
	now  bool
}

// Shift returns an adjustment that moves the harvest date by days.
func Shift(days int) Adjustment { return Adjustment{days: days} }

// HarvestNow returns the immediate-harvest adjustment.
func HarvestNow() Adjustment { return Adjustment{now: true} }

// IsHarvestNow reports whether a is the immediate-harvest variant.
func (a Adjustment) IsHarvestNow() bool { return a.now }

// Days returns the shift in days; ok is false for HarvestNow.
func (a Adjustment) Days() (days int, ok bool) {
	if a.now {
		return 0, false
	}
	return a.days, true
}

// LegacyDays flattens a into the old integer encoding.
func (a Adjustment) LegacyDays() int {
	if a.now {
		return LegacyHarvestNow
	}
	return a.days
}

func (a Adjustment) String() string {
	if a.now {
		return "harvest now"
	}
	return fmt.Sprintf("%+d days", a.days)
}

type adjustmentJSON struct {
	Kind string `json:"kind"`
	Days *int   `json:"days,omitempty"`
}

const (
	adjustmentKindShift = "shift"
	adjustmentKindNow   = "harvest_now"
)

// MarshalJSON encodes a as {"kind":"shift","days":n} or {"kind":"harvest_now"}.
func (a Adjustment) MarshalJSON() ([]byte, error) {
	if a.now {
		return json.Marshal(adjustmentJSON{Kind: adjustmentKindNow})
	}
	d := a.days
	return json.Marshal(adjustmentJSON{Kind: adjustmentKindShift, Days: &d})
}

// UnmarshalJSON accepts the tagged form and the legacy bare integer.
func (a *Adjustment) UnmarshalJSON(b []byte) error {
	var legacy int
	if err := json.Unmarshal(b, &legacy); err == nil {
		if legacy == LegacyHarvestNow {
			*a = HarvestNow()
		} else {
			*a = Shift(legacy)
		}
		return nil
	}

	var v adjustmentJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v.Kind {
	case adjustmentKindNow:
		*a = HarvestNow()
	case adjustmentKindShift:
		if v.Days == nil {
			return fmt.Errorf("adjustment: shift without days")
		}
		*a = Shift(*v.Days)
	default:
		return fmt.Errorf("adjustment: unknown kind %q", v.Kind)
	}
	return nil
}

// Scheduler turns an overall impact and the forecast into a harvest adjustment
// and the list of advisory triggers.
type Scheduler struct{}

// NewScheduler returns a Scheduler.
func NewScheduler() *Scheduler { return &Scheduler{} }

// Adjust computes how far the harvest date should move.
//
// Late flowering under a Critical overall impact always yields HarvestNow.
// Without a forecast nothing can be adjusted and a zero shift is returned.
// Otherwise the next seven forecast days are scanned for humidity, heat, cold
// and rain risk, the offset is floored per stage and the preference is applied.
func (s *Scheduler) Adjust(overall ImpactLevel, snap weather.WeatherSnapshot, stage cannabis.Stage, pref cannabis.HarvestPreference) Adjustment {
	if stage == cannabis.Late && overall == Critical {
		return HarvestNow()
	}
	if !snap.HasForecast() {
		return Shift(0)
	}

	var humid, heat, cold, rain int
	for _, d := range snap.NextDays(adjustForecastDays) {
		if d.Humidity > riskHumidity {
			humid++
		}
		if d.TemperatureMax > riskHeatTemp {
			heat++
		}
		if d.TemperatureMin < riskColdTemp {
			cold++
		}
		if d.PrecipitationProbability > riskRainChance {
			rain++
		}
	}

	offset := ceilDiv(cold, 3) - ceilDiv(heat, 2)
	switch stage {
	case cannabis.Late:
		offset -= humid + rain
	case cannabis.Mid:
		offset -= ceilDiv(humid, 2) + rain
	}

	switch stage {
	case cannabis.Early:
		offset = max(offset, earlyFloor)
	case cannabis.Mid:
		offset = max(offset, midFloor)
	}

	switch pref {
	case cannabis.Energetic:
		if stage == cannabis.Late {
			return HarvestNow()
		}
		offset += energeticShift
	case cannabis.Relaxing:
		switch overall {
		case Positive, Neutral:
			offset += relaxingShift
		case Negative:
			offset = min(offset, 0)
		}
	}
	return Shift(offset)
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

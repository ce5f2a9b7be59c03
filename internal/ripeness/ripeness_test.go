package ripeness

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/clock"
	"github.com/i474232898/harvest-advisor/internal/harvestdate"
)

var dates = harvestdate.New(clock.Fixed(time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)))

func f(v float64) *float64 { return &v }
func intp(v int) *int      { return &v }

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"Temprano": Early, "early": Early,
		"Medio": Mid, "MID": Mid,
		"Tardío": Late, "tardio": Late, "Late": Late,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("overripe")
	assert.Error(t, err)
}

func TestLevelStage(t *testing.T) {
	assert.Equal(t, cannabis.Early, Early.Stage())
	assert.Equal(t, cannabis.Mid, Mid.Stage())
	assert.Equal(t, cannabis.Late, Late.Stage())
}

func TestNormalize_Defaults(t *testing.T) {
	res := Normalize(Raw{}, true)
	assert.Equal(t, Mid, res.Level)
	assert.Equal(t, 0.5, res.Confidence)
	require.NotNil(t, res.Microscopic)
	assert.Equal(t, DefaultMicroscopic, *res.Microscopic)
	assert.Nil(t, res.Harvest)

	res = Normalize(Raw{Level: "Tardío", Confidence: f(1.7)}, false)
	assert.Equal(t, Late, res.Level)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Nil(t, res.Microscopic)
}

func TestNormalize_HarvestEstimate(t *testing.T) {
	res := Normalize(Raw{Harvest: &RawHarvest{DaysToHarvest: intp(-4), OptimalHarvestDate: "x"}}, false)
	require.NotNil(t, res.Harvest)
	assert.Equal(t, 0, res.Harvest.DaysToHarvest)

	res = Normalize(Raw{Harvest: &RawHarvest{OptimalHarvestDate: "01/10/2026"}}, false)
	assert.Nil(t, res.Harvest, "estimate without a day count is dropped")
}

func TestNormalize_FromJSON(t *testing.T) {
	var raw Raw
	require.NoError(t, json.Unmarshal([]byte(`{
		"ripeness_level": "Medio",
		"confidence": 0.6,
		"microscopic": {"clear_trichomes": 10, "milky_trichomes": 60}
	}`), &raw))

	res := Normalize(raw, true)
	require.NotNil(t, res.Microscopic)
	assert.InDelta(t, 14.3, res.Microscopic.Clear, 0.05)
	assert.InDelta(t, 85.7, res.Microscopic.Milky, 0.05)
	assert.Equal(t, 0.0, res.Microscopic.Amber)
}

func TestRenormalizeMicroscopic(t *testing.T) {
	tests := []struct {
		name string
		in   Microscopic
		want Microscopic
	}{
		{"within tolerance untouched", Microscopic{30, 40, 31}, Microscopic{30, 40, 31}},
		{"scaled up preserving ratios", Microscopic{10, 20, 20}, Microscopic{20, 40, 40}},
		{"scaled down", Microscopic{50, 100, 50}, Microscopic{25, 50, 25}},
		{"negatives clamped", Microscopic{-10, 50, 50}, Microscopic{0, 50, 50}},
		{"all zero gets default", Microscopic{}, DefaultMicroscopic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenormalizeMicroscopic(tt.in))
		})
	}
}

func TestAdjustDaysForAmber(t *testing.T) {
	assert.Equal(t, 0, AdjustDaysForAmber(10, 35))
	assert.Equal(t, 5, AdjustDaysForAmber(10, 25))
	assert.Equal(t, 3, AdjustDaysForAmber(7, 21))
	assert.Equal(t, 8, AdjustDaysForAmber(10, 15))
	assert.Equal(t, 10, AdjustDaysForAmber(10, 10))
	assert.Equal(t, 10, AdjustDaysForAmber(10, 0))
}

func TestFuse_MicroscopicWins(t *testing.T) {
	general := Result{
		Level:           Mid,
		Confidence:      0.6,
		Characteristics: Characteristics{Trichomes: "mostly cloudy"},
		Harvest:         &HarvestEstimate{DaysToHarvest: 10, OptimalHarvestDate: "11/09/2026", HarvestWindow: "original"},
	}
	microscopic := Result{
		Level:           Late,
		Confidence:      0.9,
		Characteristics: Characteristics{Trichomes: "35% amber"},
		Microscopic:     &Microscopic{Clear: 5, Milky: 60, Amber: 35},
	}

	out := NewFuser(dates).Fuse(general, microscopic)

	assert.Equal(t, Late, out.Level)
	assert.InDelta(t, 0.78, out.Confidence, 1e-9)
	require.NotNil(t, out.Harvest)
	assert.Equal(t, 0, out.Harvest.DaysToHarvest)
	assert.Equal(t, "01/09/2026", out.Harvest.OptimalHarvestDate)
	assert.Equal(t, WindowText(0), out.Harvest.HarvestWindow)
	require.Len(t, out.AdditionalNotes, 1)
	assert.Contains(t, out.AdditionalNotes[0], "mostly cloudy")
	assert.Contains(t, out.AdditionalNotes[0], "35% amber")
	assert.Equal(t, 35.0, out.Microscopic.Amber)

	// Inputs are not mutated.
	assert.Equal(t, 10, general.Harvest.DaysToHarvest)
}

func TestFuse_AgreementKeepsWindowWhenDaysUnchanged(t *testing.T) {
	general := Result{
		Level:      Mid,
		Confidence: 0.5,
		Harvest:    &HarvestEstimate{DaysToHarvest: 12, OptimalHarvestDate: "garbage", HarvestWindow: "two weeks"},
	}
	microscopic := Result{Level: Mid, Confidence: 0.5, Microscopic: &Microscopic{Clear: 40, Milky: 55, Amber: 5}}

	out := NewFuser(dates).Fuse(general, microscopic)
	assert.Equal(t, Mid, out.Level)
	assert.Empty(t, out.AdditionalNotes)
	assert.Equal(t, 12, out.Harvest.DaysToHarvest)
	assert.Equal(t, "two weeks", out.Harvest.HarvestWindow)
	assert.Equal(t, "13/09/2026", out.Harvest.OptimalHarvestDate)
}

func TestFuse_NoEstimateNotFabricated(t *testing.T) {
	out := NewFuser(dates).Fuse(
		Result{Level: Early, Confidence: 0.7},
		Result{Level: Early, Confidence: 0.7, Microscopic: &Microscopic{Amber: 50, Milky: 50}},
	)
	assert.Nil(t, out.Harvest)
}

func TestFuse_MissingBreakdownUsesDefaultSplit(t *testing.T) {
	out := NewFuser(dates).Fuse(
		Result{Level: Mid, Confidence: 0.5, Harvest: &HarvestEstimate{DaysToHarvest: 9}},
		Result{Level: Mid, Confidence: 0.5},
	)
	require.NotNil(t, out.Microscopic)
	assert.Equal(t, DefaultMicroscopic, *out.Microscopic)
	assert.Equal(t, 0, out.Harvest.DaysToHarvest, "default split carries 34% amber")
}

func TestComplete(t *testing.T) {
	og := cannabis.Variety{ID: "og-kush", FloweringTime: cannabis.FloweringTime{Min: 56, Max: 70}}

	res := Complete(Result{Level: Mid}, &og, cannabis.Balanced, dates)
	require.NotNil(t, res.Harvest)
	assert.Equal(t, 14, res.Harvest.DaysToHarvest)
	assert.Equal(t, "15/09/2026", res.Harvest.OptimalHarvestDate)

	res = Complete(Result{Level: Mid}, nil, cannabis.Balanced, dates)
	assert.Nil(t, res.Harvest)

	res = Complete(Result{Level: Late, Harvest: &HarvestEstimate{DaysToHarvest: 3, OptimalHarvestDate: "01/01/2019"}}, nil, cannabis.Balanced, dates)
	assert.Equal(t, "04/09/2026", res.Harvest.OptimalHarvestDate)
	assert.Equal(t, WindowText(3), res.Harvest.HarvestWindow)
}

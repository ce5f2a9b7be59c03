package cannabis

import (
	"math"
)

// FloweringTime is the flowering period range in days.
type FloweringTime struct {
	Min int `json:"min" yaml:"min" validate:"gt=0"`
	Max int `json:"max" yaml:"max" validate:"gtefield=Min"`
}

// Characteristics are development rates on a 1-10 scale (10 = very fast).
type Characteristics struct {
	PistilsMaturationRate    int `json:"pistils_maturation_rate" yaml:"pistils_maturation_rate" validate:"min=1,max=10"`
	TrichomesDevelopmentRate int `json:"trichomes_development_rate" yaml:"trichomes_development_rate" validate:"min=1,max=10"`
	LeafColorChangeRate      int `json:"leaf_color_change_rate" yaml:"leaf_color_change_rate" validate:"min=1,max=10"`
}

// Variety is static reference data about a cultivar.
type Variety struct {
	ID              string          `json:"id" yaml:"id" validate:"required"`
	Name            string          `json:"name" yaml:"name" validate:"required"`
	Type            VarietyType     `json:"type" yaml:"type" validate:"oneof=Sativa Indica Hybrid"`
	FloweringTime   FloweringTime   `json:"flowering_time" yaml:"flowering_time"`
	Characteristics Characteristics `json:"characteristics" yaml:"characteristics"`
	Description     string          `json:"description,omitempty" yaml:"description"`
}

var stageShare = map[Stage]float64{
	Early: 0.4,
	Mid:   0.2,
	Late:  0.05,
}

var preferenceFactor = map[HarvestPreference]float64{
	Energetic: 0.8,
	Balanced:  1.0,
	Relaxing:  1.2,
}

// DaysToHarvest estimates the days remaining for a plant of variety v at stage,
// scaled by the grower's preference. Unknown stages or preferences count as Mid and Balanced.
func DaysToHarvest(stage Stage, v Variety, pref HarvestPreference) int {
	share, ok := stageShare[stage]
	if !ok {
		share = stageShare[Mid]
	}
	factor, ok := preferenceFactor[pref]
	if !ok {
		factor = 1.0
	}
	return int(math.Round(float64(v.FloweringTime.Max) * share * factor))
}

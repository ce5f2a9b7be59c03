package ripeness

import (
	"fmt"
	"strings"

	"github.com/i474232898/harvest-advisor/internal/cannabis"
)

// Level is the ripeness classification of a plant.
type Level string

const (
	Early Level = "Early"
	Mid   Level = "Mid"
	Late  Level = "Late"
)

// ParseLevel accepts English and Spanish labels (Temprano, Medio, Tardío).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "early", "temprano":
		return Early, nil
	case "mid", "medio":
		return Mid, nil
	case "late", "tardío", "tardio":
		return Late, nil
	}
	return "", fmt.Errorf("unknown ripeness level %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Stage maps the ripeness level onto the flowering stage.
func (l Level) Stage() cannabis.Stage {
	switch l {
	case Early:
		return cannabis.Early
	case Late:
		return cannabis.Late
	default:
		return cannabis.Mid
	}
}

// Characteristics are the visual cues observed in the photo.
type Characteristics struct {
	Pistils   string `json:"pistils"`
	Trichomes string `json:"trichomes"`
	LeafColor string `json:"leaf_color"`
}

// Microscopic is the trichome colour breakdown in percent.
type Microscopic struct {
	Clear float64 `json:"clear_trichomes"`
	Milky float64 `json:"milky_trichomes"`
	Amber float64 `json:"amber_trichomes"`
}

// Sum returns the total of the three shares.
func (m Microscopic) Sum() float64 {
	return m.Clear + m.Milky + m.Amber
}

// HarvestEstimate is the predicted harvest timing.
type HarvestEstimate struct {
	DaysToHarvest      int    `json:"days_to_harvest"`
	OptimalHarvestDate string `json:"optimal_harvest_date"`
	HarvestWindow      string `json:"harvest_window"`
}

// Result is a ripeness assessment for one photo or the fusion of two.
type Result struct {
	Level           Level            `json:"ripeness_level"`
	Confidence      float64          `json:"confidence"`
	Characteristics Characteristics  `json:"characteristics"`
	Microscopic     *Microscopic     `json:"microscopic,omitempty"`
	Harvest         *HarvestEstimate `json:"harvest_estimate,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
	AdditionalNotes []string         `json:"additional_notes,omitempty"`
}

package cannabis

import (
	"fmt"
	"strings"
)

// VarietyType is the botanical family of a variety.
type VarietyType string

const (
	Sativa VarietyType = "Sativa"
	Indica VarietyType = "Indica"
	Hybrid VarietyType = "Hybrid"
)

// ParseVarietyType accepts English and Spanish spellings.
func ParseVarietyType(s string) (VarietyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sativa":
		return Sativa, nil
	case "indica":
		return Indica, nil
	case "hybrid", "híbrido", "hibrido":
		return Hybrid, nil
	}
	return "", fmt.Errorf("unknown variety type %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *VarietyType) UnmarshalText(b []byte) error {
	v, err := ParseVarietyType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Stage is the coarse flowering phase of the plant.
type Stage string

const (
	Early Stage = "Early"
	Mid   Stage = "Mid"
	Late  Stage = "Late"
)

// Valid reports whether s is one of the three known stages.
func (s Stage) Valid() bool {
	return s == Early || s == Mid || s == Late
}

// HarvestPreference biases the harvest toward earlier or later dates.
type HarvestPreference string

const (
	Energetic HarvestPreference = "Energetic"
	Balanced  HarvestPreference = "Balanced"
	Relaxing  HarvestPreference = "Relaxing"
)

// ParseHarvestPreference accepts English and Spanish names. Empty input means Balanced.
func ParseHarvestPreference(s string) (HarvestPreference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "energetic", "energético", "energetico":
		return Energetic, nil
	case "", "balanced", "equilibrado":
		return Balanced, nil
	case "relaxing", "relajante":
		return Relaxing, nil
	}
	return "", fmt.Errorf("unknown harvest preference %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *HarvestPreference) UnmarshalText(b []byte) error {
	v, err := ParseHarvestPreference(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// UserPreferences are the grower's choices attached to an advisory request.
type UserPreferences struct {
	HarvestPreference      HarvestPreference `json:"harvest_preference"`
	PreferredVarieties     []string          `json:"preferred_varieties,omitempty"`
	UseMicroscopicAnalysis bool              `json:"use_microscopic_analysis"`
}

// DefaultPreferences returns the preferences applied when the grower chose none.
func DefaultPreferences() UserPreferences {
	return UserPreferences{HarvestPreference: Balanced}
}

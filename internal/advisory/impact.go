// Package advisory turns weather snapshots and ripeness results into harvest-timing
// decisions: per-dimension impact levels, a day adjustment and prioritized triggers.
package advisory

import (
	"fmt"
	"strings"
)

// ImpactLevel is an ordinal risk classification: Positive < Neutral < Negative < Critical.
type ImpactLevel int

const (
	Positive ImpactLevel = iota
	Neutral
	Negative
	Critical
)

var impactNames = [...]string{"positive", "neutral", "negative", "critical"}

func (l ImpactLevel) String() string {
	if l < Positive || l > Critical {
		return fmt.Sprintf("ImpactLevel(%d)", int(l))
	}
	return impactNames[l]
}

// Adverse reports whether l is Negative or Critical.
func (l ImpactLevel) Adverse() bool {
	return l >= Negative
}

// ParseImpactLevel parses a level name, case-insensitively.
func ParseImpactLevel(s string) (ImpactLevel, error) {
	for i, name := range impactNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return ImpactLevel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown impact level %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l ImpactLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *ImpactLevel) UnmarshalText(b []byte) error {
	v, err := ParseImpactLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// OverallImpact folds dimension impacts into one level: any Critical wins; two or
// more Negative give Negative; one Negative or two Neutral give Neutral.
func OverallImpact(levels ...ImpactLevel) ImpactLevel {
	var counts [Critical + 1]int
	for _, l := range levels {
		if l >= Positive && l <= Critical {
			counts[l]++
		}
	}
	switch {
	case counts[Critical] > 0:
		return Critical
	case counts[Negative] >= 2:
		return Negative
	case counts[Negative] == 1 || counts[Neutral] >= 2:
		return Neutral
	default:
		return Positive
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/i474232898/harvest-advisor/internal/advisory"
	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/clock"
	"github.com/i474232898/harvest-advisor/internal/render"
	"github.com/i474232898/harvest-advisor/internal/ripeness"
	"github.com/i474232898/harvest-advisor/internal/weather"
)

// scenario is a recorded weather snapshot plus the grower's inputs.
type scenario struct {
	VarietyID   string                   `json:"variety_id"`
	Preferences cannabis.UserPreferences `json:"preferences"`
	General     ripeness.Raw             `json:"general"`
	Microscopic *ripeness.Raw            `json:"microscopic"`
	Weather     weather.WeatherSnapshot  `json:"weather"`
}

func parseScenario(raw []byte) (scenario, error) {
	var sc scenario
	if err := json.Unmarshal(raw, &sc); err != nil {
		return scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	return sc, nil
}

// snapshotSource serves the recorded snapshot for any location.
type snapshotSource struct {
	snap weather.WeatherSnapshot
}

func (s snapshotSource) FetchCached(_ context.Context, _ weather.GeoLocation) (weather.WeatherSnapshot, error) {
	return s.snap, nil
}

func evaluate(ctx context.Context, sc scenario, catalog *cannabis.Catalog, now time.Time) (advisory.Advisory, error) {
	req := advisory.Request{
		Preferences: sc.Preferences,
		General:     sc.General,
		Microscopic: sc.Microscopic,
	}
	if sc.VarietyID != "" {
		v, err := catalog.Get(sc.VarietyID)
		if err != nil {
			return advisory.Advisory{}, err
		}
		req.Variety = &v
	}
	loc := sc.Weather.Location
	req.Location = &loc

	engine := advisory.NewEngine(advisory.EngineOptions{
		Clock:   clock.Fixed(now),
		Weather: snapshotSource{snap: sc.Weather},
	})
	return engine.Assess(ctx, req)
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0")).Width(18)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4A5568")).Padding(0, 1)

	impactStyles = map[advisory.ImpactLevel]lipgloss.Style{
		advisory.Positive: lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true),
		advisory.Neutral:  lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")),
		advisory.Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true),
		advisory.Critical: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
)

func impactText(r *render.Renderer, tag language.Tag, l advisory.ImpactLevel) string {
	return impactStyles[l].Render(r.Impact(tag, l))
}

// format renders the advisory as a boxed terminal report.
func format(adv advisory.Advisory, r *render.Renderer, tag language.Tag) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	title := "Harvest advisory"
	if adv.Variety != nil {
		title += " · " + adv.Variety.Name
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')

	row("Ripeness", valueStyle.Render(fmt.Sprintf("%s (%.0f%%)", adv.Ripeness.Level, adv.Ripeness.Confidence*100)))
	row("Stage", valueStyle.Render(string(adv.Stage)))
	row("Preference", valueStyle.Render(string(adv.Preferences.HarvestPreference)))
	if h := adv.Ripeness.Harvest; h != nil {
		row("Harvest", valueStyle.Render(fmt.Sprintf("%s (%s)", h.OptimalHarvestDate, h.HarvestWindow)))
	}
	if d := adv.Daylight; d != nil {
		row("Daylight", valueStyle.Render(fmt.Sprintf("%.1f h", d.Hours)))
	}

	a := adv.Assessment
	if a == nil {
		b.WriteString(sectionStyle.Render(adv.Unavailable.Message))
		b.WriteString("\n" + valueStyle.Render(adv.Unavailable.Cause))
		return boxStyle.Render(b.String())
	}

	b.WriteString(sectionStyle.Render("Weather"))
	b.WriteByte('\n')
	row("Temperature", impactText(r, tag, a.TemperatureImpact))
	row("Humidity", impactText(r, tag, a.HumidityImpact))
	row("UV", impactText(r, tag, a.UVImpact))
	if a.HailImpact != nil {
		row("Hail", impactText(r, tag, *a.HailImpact))
	}
	row("Overall", impactText(r, tag, a.OverallImpact))
	row("Adjustment", valueStyle.Render(r.Adjustment(tag, a.Adjustment)))
	row("Offset code", valueStyle.Render(fmt.Sprint(a.Adjustment.LegacyDays())))
	if h := adv.AdjustedHarvest; h != nil {
		row("Adjusted date", valueStyle.Render(h.OptimalHarvestDate))
	}

	b.WriteString(sectionStyle.Render("Recommendations"))
	b.WriteByte('\n')
	for _, line := range r.Triggers(tag, a.Recommendations) {
		b.WriteString("• " + line + "\n")
	}
	b.WriteString(valueStyle.Render(r.Preference(tag, adv.Preferences.HarvestPreference)))
	return boxStyle.Render(b.String())
}

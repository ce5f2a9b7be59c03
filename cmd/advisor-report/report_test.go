package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/i474232898/harvest-advisor/internal/advisory"
	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/render"
)

var reportNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func loadScenario(t *testing.T, name string) scenario {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	sc, err := parseScenario(raw)
	require.NoError(t, err)
	return sc
}

func TestEvaluate_HumidLateScenario(t *testing.T) {
	catalog, err := cannabis.DefaultCatalog()
	require.NoError(t, err)

	adv, err := evaluate(context.Background(), loadScenario(t, "humid_late.json"), catalog, reportNow)
	require.NoError(t, err)

	assert.Equal(t, cannabis.Late, adv.Stage)
	require.NotNil(t, adv.Assessment)
	assert.Equal(t, advisory.Critical, adv.Assessment.HumidityImpact)
	assert.True(t, adv.Assessment.Adjustment.IsHarvestNow())

	r, err := render.New("en")
	require.NoError(t, err)
	out := format(adv, r, language.English)
	assert.Contains(t, out, "Northern Lights")
	assert.Contains(t, out, "Immediate harvest recommended.")
	assert.Contains(t, out, "Offset code")
	assert.Contains(t, out, fmt.Sprint(advisory.LegacyHarvestNow))
}

func TestEvaluate_UnknownVariety(t *testing.T) {
	catalog, err := cannabis.DefaultCatalog()
	require.NoError(t, err)

	sc := loadScenario(t, "humid_late.json")
	sc.VarietyID = "nope"
	_, err = evaluate(context.Background(), sc, catalog, reportNow)
	assert.ErrorIs(t, err, cannabis.ErrUnknownVariety)
}

func TestParseScenario_Invalid(t *testing.T) {
	_, err := parseScenario([]byte(`{"weather": `))
	assert.Error(t, err)
}

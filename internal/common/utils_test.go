package common

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsAnyFold(t *testing.T) {
	assert.True(t, ContainsAnyFold("Severe HAIL warning", "hail", "granizo"))
	assert.True(t, ContainsAnyFold("Tormenta con granizo", "hail", "granizo"))
	assert.False(t, ContainsAnyFold("Thunderstorm", "hail"))
	assert.False(t, ContainsAnyFold("", "hail"))
}

func TestPlurality(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"empty", nil, ""},
		{"single", []string{"sunny"}, "sunny"},
		{"majority", []string{"rain", "sunny", "rain"}, "rain"},
		{"tie goes to first seen", []string{"cloudy", "rain", "rain", "cloudy"}, "cloudy"},
		{"blank values ignored", []string{"", "", "fog"}, "fog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Plurality(tt.values))
		})
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 22.0, Round1(22.04))
	assert.Equal(t, 22.1, Round1(22.06))
	assert.Equal(t, -3.3, Round1(-3.33))
}

func TestErrorCodeHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrCodeValidationInput.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, ErrCodeNotFoundVariety.HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, ErrCodeUpstreamWeather.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, ErrCodeAssessmentFailed.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrorCode("something_else").HTTPStatus())
}

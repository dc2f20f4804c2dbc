package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitaljournal/journal-service/internal/core/domain"
)

func TestDistance_KnownPair(t *testing.T) {
	london := &domain.Coordinates{Latitude: 51.5074, Longitude: -0.1278}
	paris := &domain.Coordinates{Latitude: 48.8566, Longitude: 2.3522}

	d := domain.Distance(london, paris)

	assert.InDelta(t, 343.5, d, 2.0)
}

func TestDistance_SamePointIsZero(t *testing.T) {
	p := &domain.Coordinates{Latitude: 40.0, Longitude: -74.0}
	assert.Equal(t, 0.0, domain.Distance(p, p))
}

func TestDistance_MissingPointIsInfinite(t *testing.T) {
	p := &domain.Coordinates{Latitude: 40.0, Longitude: -74.0}

	assert.True(t, math.IsInf(domain.Distance(nil, p), 1))
	assert.True(t, math.IsInf(domain.Distance(p, nil), 1))
	assert.True(t, math.IsInf(domain.Distance(nil, nil), 1))
}

func TestDistance_NaNCoordinateIsInfinite(t *testing.T) {
	p := &domain.Coordinates{Latitude: math.NaN(), Longitude: -74.0}
	q := &domain.Coordinates{Latitude: 40.0, Longitude: -74.0}

	assert.True(t, math.IsInf(domain.Distance(p, q), 1))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "Unknown", domain.FormatDistance(math.Inf(1)))
	assert.Equal(t, "Unknown", domain.FormatDistance(math.NaN()))
	assert.Equal(t, "250 m", domain.FormatDistance(0.25))
	assert.Equal(t, "999 m", domain.FormatDistance(0.999))
	assert.Equal(t, "1.00 km", domain.FormatDistance(1.0))
	assert.Equal(t, "12.35 km", domain.FormatDistance(12.3456))
}

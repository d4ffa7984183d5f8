package geo_test

import (
	"math"
	"testing"

	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(t *testing.T, lat, lon float64) *kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation(lat, lon)
	require.NoError(t, err)
	return &l
}

func tariff(t *testing.T, base, perKm int64) geo.Tariff {
	t.Helper()
	tr, err := geo.NewTariff(decimal.NewFromInt(base), decimal.NewFromInt(perKm))
	require.NoError(t, err)
	return tr
}

func TestDistanceKm(t *testing.T) {
	t.Run("zero for identical points", func(t *testing.T) {
		a := loc(t, 12.9, 77.6)

		assert.InDelta(t, 0.0, geo.DistanceKm(a, a), 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		points := []*kernel.Location{
			loc(t, 12.9, 77.6), loc(t, -33.86, 151.2), loc(t, 51.5, -0.12), loc(t, 0, 179.9), loc(t, 0, -179.9),
		}
		for _, a := range points {
			for _, b := range points {
				assert.InDelta(t, geo.DistanceKm(a, b), geo.DistanceKm(b, a), 1e-9)
			}
		}
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := geo.DistanceKm(loc(t, 0, 0), loc(t, 1, 0))

		assert.InDelta(t, 2*math.Pi*geo.EarthRadiusKm/360, d, 1e-6)
	})

	t.Run("crosses the antimeridian the short way", func(t *testing.T) {
		d := geo.DistanceKm(loc(t, 0, 179.9), loc(t, 0, -179.9))

		assert.Less(t, d, 30.0)
	})

	t.Run("unknown when a point is missing", func(t *testing.T) {
		a := loc(t, 12.9, 77.6)

		assert.False(t, geo.IsKnown(geo.DistanceKm(a, nil)))
		assert.False(t, geo.IsKnown(geo.DistanceKm(nil, a)))
		assert.False(t, geo.IsKnown(geo.DistanceKm(nil, nil)))
		assert.True(t, geo.IsKnown(geo.DistanceKm(a, a)))
		assert.Equal(t, geo.Unknown(), geo.DistanceKm(a, nil))
	})

	t.Run("unknown is a fresh value on every call", func(t *testing.T) {
		assert.False(t, geo.IsKnown(geo.Unknown()))
		assert.True(t, math.IsInf(geo.Unknown(), 1))
	})
}

func TestTariff_Earnings(t *testing.T) {
	t.Run("base 30 plus 5 per km over 4 km totals 50", func(t *testing.T) {
		e := tariff(t, 30, 5).Earnings(4)

		assert.InDelta(t, 4.0, e.DistanceKm, 1e-12)
		assert.True(t, decimal.NewFromInt(30).Equal(e.Base), e.Base.String())
		assert.True(t, decimal.NewFromInt(20).Equal(e.DistanceComponent), e.DistanceComponent.String())
		assert.True(t, decimal.NewFromInt(50).Equal(e.Total), e.Total.String())
	})

	t.Run("rounds the distance component to cents", func(t *testing.T) {
		e := tariff(t, 30, 5).Earnings(3.14159)

		assert.Equal(t, "15.71", e.DistanceComponent.StringFixed(2))
		assert.Equal(t, "45.71", e.Total.StringFixed(2))
	})

	t.Run("unknown distance pays the base only", func(t *testing.T) {
		e := tariff(t, 30, 5).Earnings(geo.Unknown())

		assert.Zero(t, e.DistanceKm)
		assert.True(t, decimal.NewFromInt(30).Equal(e.Total))
	})

	t.Run("total is monotone in distance", func(t *testing.T) {
		tr := tariff(t, 30, 5)
		distances := []float64{0, 0.001, 0.5, 1, 2.345, 4, 7, 10.5, 99.99, 1234.5}
		for i := 1; i < len(distances); i++ {
			prev := tr.Earnings(distances[i-1]).Total
			next := tr.Earnings(distances[i]).Total

			assert.True(t, prev.LessThanOrEqual(next), "%s > %s", prev, next)
		}
	})

	t.Run("fresh earnings are zero", func(t *testing.T) {
		assert.True(t, geo.Earnings{}.IsZero())
		assert.False(t, tariff(t, 30, 5).Earnings(1).IsZero())
	})
}

func TestNewTariff_RejectsNegativeRates(t *testing.T) {
	_, err := geo.NewTariff(decimal.NewFromInt(-1), decimal.NewFromInt(-2))

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Contains(t, err.Error(), "baseEarning")
	assert.Contains(t, err.Error(), "perKmEarning")
}

func TestETAMinutes(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		speed    float64
		want     int
		ok       bool
	}{
		{"ten km at 25 kmph", 10, 25, 24, true},
		{"rounds to nearest minute", 0.75, 25, 2, true},
		{"floors at one minute", 0.01, 25, 1, true},
		{"zero distance still one minute", 0, 25, 1, true},
		{"unknown distance", geo.Unknown(), 25, 0, false},
		{"zero speed", 5, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := geo.ETAMinutes(tt.distance, tt.speed)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Package geo computes great-circle distances, courier earnings and ETAs.
//
// All functions are pure. Missing coordinates never produce an error: distance
// degrades to Unknown() and callers decide how to present it.
package geo

import (
	"errors"
	"math"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Unknown is the distance DistanceKm returns when either point is missing.
// It must never be treated as zero distance; test for it with IsKnown.
func Unknown() float64 {
	return math.Inf(1)
}

// DistanceKm returns the haversine distance between a and b in kilometres.
func DistanceKm(a, b *kernel.Location) float64 {
	if a == nil || b == nil {
		return Unknown()
	}

	lat1 := toRadians(a.Lat())
	lat2 := toRadians(b.Lat())
	dLat := toRadians(b.Lat() - a.Lat())
	dLon := toRadians(b.Lon() - a.Lon())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// IsKnown reports whether d is a real distance rather than Unknown().
func IsKnown(d float64) bool {
	return !math.IsInf(d, 0) && !math.IsNaN(d)
}

// ETAMinutes converts a distance into whole minutes at avgSpeedKmph, never
// less than one. ok is false when the distance is unknown or the speed unusable.
func ETAMinutes(distanceKm, avgSpeedKmph float64) (minutes int, ok bool) {
	if !IsKnown(distanceKm) || avgSpeedKmph <= 0 || math.IsNaN(avgSpeedKmph) {
		return 0, false
	}

	minutes = int(math.Round(distanceKm / avgSpeedKmph * 60))
	if minutes < 1 {
		minutes = 1
	}
	return minutes, true
}

// Earnings is the courier payout for one delivered order.
type Earnings struct {
	DistanceKm        float64
	Base              decimal.Decimal
	DistanceComponent decimal.Decimal
	Total             decimal.Decimal
}

// IsZero reports whether no earnings were computed yet.
func (e Earnings) IsZero() bool {
	return e.DistanceKm == 0 && e.Base.IsZero() && e.DistanceComponent.IsZero() && e.Total.IsZero()
}

// Tariff holds the configured payout rates.
type Tariff struct {
	base  decimal.Decimal
	perKm decimal.Decimal
}

// NewTariff rejects negative rates so that earnings stay monotone in distance.
func NewTariff(base, perKm decimal.Decimal) (Tariff, error) {
	var err error
	if base.IsNegative() {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("baseEarning", base, 0, "+inf"))
	}
	if perKm.IsNegative() {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("perKmEarning", perKm, 0, "+inf"))
	}
	if err != nil {
		return Tariff{}, err
	}
	return Tariff{base: base, perKm: perKm}, nil
}

// Base returns the flat amount paid per delivery.
func (t Tariff) Base() decimal.Decimal {
	return t.base
}

// PerKm returns the amount paid per kilometre.
func (t Tariff) PerKm() decimal.Decimal {
	return t.perKm
}

// Earnings applies the tariff to distanceKm. Unknown or negative distances are
// charged as zero kilometres, leaving only the base amount.
func (t Tariff) Earnings(distanceKm float64) Earnings {
	if !IsKnown(distanceKm) || distanceKm < 0 {
		distanceKm = 0
	}

	component := decimal.NewFromFloat(distanceKm).Mul(t.perKm).Round(2)
	base := t.base.Round(2)

	return Earnings{
		DistanceKm:        distanceKm,
		Base:              base,
		DistanceComponent: component,
		Total:             base.Add(component),
	}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

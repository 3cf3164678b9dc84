// README: Pricing service computes delivery estimates from vehicle rates and route distance.
package pricing

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"waybill/internal/types"
)

var ErrBadRequest = errors.New("pickup and dropoff are required")

// RouteProvider resolves the driving distance between two addresses.
type RouteProvider interface {
	DistanceKm(ctx context.Context, origin, destination string) (float64, error)
}

// RateStore is satisfied by *Store.
type RateStore interface {
	GetRate(ctx context.Context, vehicleType string) (Rate, error)
}

type Service struct {
	rates  RateStore
	routes RouteProvider
	logger *zap.Logger
}

// NewService accepts nil rates/routes: default tariffs and straight-line
// distance are used instead.
func NewService(rates RateStore, routes RouteProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{rates: rates, routes: routes, logger: logger}
}

func (s *Service) Estimate(ctx context.Context, req Request) (Breakdown, error) {
	if strings.TrimSpace(req.Pickup.Address) == "" && req.Pickup.Point.IsZero() {
		return Breakdown{}, ErrBadRequest
	}
	if strings.TrimSpace(req.Dropoff.Address) == "" && req.Dropoff.Point.IsZero() {
		return Breakdown{}, ErrBadRequest
	}

	vehicle := largestVehicle(req.VehicleRequirements)
	rate, err := s.rate(ctx, vehicle)
	if err != nil {
		return Breakdown{}, err
	}
	dist := s.distance(ctx, req.Pickup, req.Dropoff)

	b := Breakdown{
		BasePrice:   rate.BasePrice,
		Currency:    rate.Currency,
		DistanceKm:  math.Round(dist*100) / 100,
		VehicleType: rate.VehicleType,
	}
	if b.Currency == "" {
		b.Currency = types.DefaultCurrency
	}
	b.DistanceCharge = int64(math.Round(dist * float64(rate.PerKm)))
	if req.Priority == PriorityExpress {
		b.PriorityCharge = (b.BasePrice + b.DistanceCharge) * ExpressSurchargePct / 100
	}
	b.SpecialHandling = int64(handlingItems(req)) * SpecialHandlingFee
	b.Total = b.BasePrice + b.DistanceCharge + b.PriorityCharge + b.SpecialHandling
	return b, nil
}

func (s *Service) rate(ctx context.Context, vehicle string) (Rate, error) {
	if s.rates != nil {
		r, err := s.rates.GetRate(ctx, vehicle)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, ErrRateNotFound) {
			return Rate{}, err
		}
	}
	return DefaultRates[vehicle], nil
}

// distance prefers the road route and falls back to the inflated great-circle
// distance. Zero when neither is available.
func (s *Service) distance(ctx context.Context, pickup, dropoff Location) float64 {
	if s.routes != nil && pickup.Address != "" && dropoff.Address != "" {
		km, err := s.routes.DistanceKm(ctx, pickup.Address, dropoff.Address)
		if err == nil {
			return km
		}
		s.logger.Warn("route lookup failed, using straight-line distance", zap.Error(err))
	}
	if pickup.Point.IsZero() || dropoff.Point.IsZero() {
		return 0
	}
	return haversineKm(pickup.Point, dropoff.Point) * roadFactor
}

// largestVehicle returns the biggest class requested; the order is priced for
// the vehicle that can carry everything. Unknown entries are ignored.
func largestVehicle(vehicles []string) string {
	best, bestRank := "motorcycle", 0
	for _, v := range vehicles {
		v = strings.ToLower(strings.TrimSpace(v))
		if r, ok := vehicleRank[v]; ok && r > bestRank {
			best, bestRank = v, r
		}
	}
	return best
}

func handlingItems(req Request) int {
	n := 0
	fragileListed := false
	for _, h := range req.SpecialHandling {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if strings.EqualFold(h, "fragile") {
			fragileListed = true
		}
		n++
	}
	if req.Fragile && !fragileListed {
		n++
	}
	return n
}

// README: Road distance lookups backed by the Google Maps Directions API.
package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

var ErrNoRoute = errors.New("no route found")

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// DistanceKm returns the driving distance of the first suggested route.
func (s *RouteService) DistanceKm(ctx context.Context, origin, destination string) (float64, error) {
	leg, err := s.firstLeg(ctx, origin, destination)
	if err != nil {
		return 0, err
	}
	return float64(leg.Distance.Meters) / 1000.0, nil
}

func (s *RouteService) firstLeg(ctx context.Context, origin, destination string) (*maps.Leg, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Region:      "ng",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}
	return routes[0].Legs[0], nil
}

package location

import (
	"context"
)

// Geocoder turns coordinates into places.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, c Coordinates) ([]Place, error)
}

// StaticProvider reports a fixed, configured position. It stands in for the
// device GPS when running from a terminal.
type StaticProvider struct {
	Granted  bool
	Position *Coordinates
	Geocoder Geocoder
}

func (p StaticProvider) RequestPermission(ctx context.Context) (bool, error) {
	return p.Granted, ctx.Err()
}

func (p StaticProvider) CurrentPosition(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	if p.Position == nil {
		return Coordinates{}, ErrNoPosition
	}
	return *p.Position, nil
}

// ReverseGeocode returns no places when no geocoder is configured.
func (p StaticProvider) ReverseGeocode(ctx context.Context, c Coordinates) ([]Place, error) {
	if p.Geocoder == nil {
		return nil, ctx.Err()
	}
	return p.Geocoder.ReverseGeocode(ctx, c)
}

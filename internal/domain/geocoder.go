package domain

import "context"

// Geocoder resolves a free-text address to coordinates.
//
// Resolve returns false only for degenerate input (empty address or a bare
// comma/space artifact). Provider failures are absorbed by the implementation
// and answered with deterministic offline coordinates, so callers never see
// an error.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (GeocodeResult, bool)
}

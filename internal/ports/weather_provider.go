package ports

import (
	"context"
	"delivery-optimization-service/internal/domain"
)

// Port: current weather conditions at a coordinate, reduced to a delivery
// impact factor (1.0 = no impact).
type WeatherProvider interface {
	Factor(ctx context.Context, coord domain.Coordinates) (float64, error)
}

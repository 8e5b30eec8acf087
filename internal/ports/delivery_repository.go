package ports

import (
	"context"
	"delivery-optimization-service/internal/domain"
)

// Port: read-only access to the current set of delivery records.
type DeliveryRepository interface {
	// Return all deliveries in stable id order. No filtering, no side effects.
	ListDeliveries(ctx context.Context) ([]domain.Delivery, error)
}

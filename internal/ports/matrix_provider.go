package ports

import (
	"context"
	"delivery-optimization-service/internal/domain"
)

// Port: a boundary for retrieving a pairwise road distance matrix for an
// ordered coordinate list from an external service.
type MatrixProvider interface {
	// Return an NxN matrix of distances in meters, N = len(coords).
	// Entries the service could not determine are nil, not an error.
	FetchMatrix(ctx context.Context, coords []domain.Coordinates) (domain.DistanceMatrix, error)
}

package ports

import (
	"context"
	"delivery-optimization-service/internal/domain"
	"errors"
)

// ErrEdgeNotFound reports a missing optimized edge key.
var ErrEdgeNotFound = errors.New("optimized edge not found")

// Port: read/write access to the optimized route edge set, uniquely keyed
// by (start_location, customer_location).
type RouteRepository interface {
	// Persist edges one at a time with insert-or-update semantics.
	// Writes are deliberately not wrapped in a transaction: a failure
	// partway through leaves earlier upserts applied.
	UpsertEdges(ctx context.Context, edges []domain.OptimizedEdge) error

	// Return the stored distance for one edge key, or ErrEdgeNotFound.
	GetEdgeDistance(ctx context.Context, startLocation, customerLocation string) (float64, error)

	// Return delivery rows joined with their optimized edges for model training.
	ListTrainingSamples(ctx context.Context) ([]domain.TrainingSample, error)
}

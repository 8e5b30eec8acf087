package matrix

import (
	"context"
	"delivery-optimization-service/internal/domain"
)

// MockMatrixProvider returns a fixed matrix and records how often it was
// called. Used by service-level tests.
type MockMatrixProvider struct {
	Matrix domain.DistanceMatrix
	Err    error
	Calls  int
}

func (p *MockMatrixProvider) FetchMatrix(ctx context.Context, coords []domain.Coordinates) (domain.DistanceMatrix, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Matrix, nil
}

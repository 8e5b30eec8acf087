package services

import (
	"context"
	"delivery-optimization-service/internal/domain"
	"delivery-optimization-service/internal/platform/obs"
	"delivery-optimization-service/internal/ports"
	"delivery-optimization-service/internal/solver"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// RunStatus classifies the outcome of one optimization run.
type RunStatus string

const (
	StatusOK          RunStatus = "ok"
	StatusNoLocations RunStatus = "no_locations"
	StatusNoSolution  RunStatus = "no_solution"
)

type OptimizeRequest struct {
	NumVehicles int
	DepotIndex  int
}

// OptimizeResult reports one run. Routes holds the per-vehicle node
// sequences (delivery record indices, depot first and last); it is nil
// unless Status is StatusOK.
type OptimizeResult struct {
	RunID  string
	Status RunStatus
	Routes [][]int
}

// Optimizer runs the end-to-end optimization:
// read deliveries -> one matrix fetch -> solve -> upsert edges.
// One invocation is fully synchronous; concurrent invocations are not
// serialized here, so per-edge last-writer-wins applies.
type Optimizer struct {
	Deliveries ports.DeliveryRepository
	Routes     ports.RouteRepository
	Matrix     ports.MatrixProvider

	PenaltyMeters float64
	FallbackKM    float64
	Strategy      solver.Strategy
}

// OptimizeRoutes performs one optimization run. An empty location set and an
// unsolvable configuration are soft outcomes reported via Status; every
// other failure aborts the run with a descriptive error naming the stage.
func (o *Optimizer) OptimizeRoutes(ctx context.Context, req OptimizeRequest) (_ *OptimizeResult, err error) {
	runID := uuid.New().String()
	ctx = obs.WithRunID(ctx, runID)
	defer obs.Time(ctx, "services.OptimizeRoutes")(&err)
	defer func() {
		if err != nil {
			obs.OptimizeRuns.WithLabelValues("error").Inc()
		}
	}()

	deliveries, err := o.Deliveries.ListDeliveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("optimize routes: fetch deliveries: %w", err)
	}

	if len(deliveries) == 0 {
		log.Printf("id=%s no delivery locations found, nothing to optimize", runID)
		obs.OptimizeRuns.WithLabelValues(string(StatusNoLocations)).Inc()
		return &OptimizeResult{RunID: runID, Status: StatusNoLocations}, nil
	}

	coordSet := domain.CoordinateSetFromDeliveries(deliveries)
	matrix, err := o.Matrix.FetchMatrix(ctx, coordSet.Coordinates())
	if err != nil {
		return nil, fmt.Errorf("optimize routes: fetch matrix: %w", err)
	}

	costs, err := buildNodeCosts(deliveries, coordSet, matrix, req.DepotIndex)
	if err != nil {
		return nil, fmt.Errorf("optimize routes: %w", err)
	}

	sol, err := solver.Solve(solver.Problem{
		Costs:         costs,
		NumVehicles:   req.NumVehicles,
		Depot:         req.DepotIndex,
		PenaltyMeters: o.PenaltyMeters,
		Strategy:      o.Strategy,
	})
	if errors.Is(err, solver.ErrNoSolution) {
		log.Printf("id=%s no feasible routes for vehicles=%d depot=%d nodes=%d",
			runID, req.NumVehicles, req.DepotIndex, len(deliveries))
		obs.OptimizeRuns.WithLabelValues(string(StatusNoSolution)).Inc()
		return &OptimizeResult{RunID: runID, Status: StatusNoSolution}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("optimize routes: solve: %w", err)
	}

	edges := collectEdges(sol.Routes, deliveries, costs, o.FallbackKM)
	if err := o.Routes.UpsertEdges(ctx, edges); err != nil {
		return nil, fmt.Errorf("optimize routes: persist edges: %w", err)
	}

	obs.EdgesUpserted.Add(float64(len(edges)))
	obs.OptimizeRuns.WithLabelValues(string(StatusOK)).Inc()
	log.Printf("id=%s optimized routes for vehicles=%d nodes=%d edges=%d",
		runID, req.NumVehicles, len(deliveries), len(edges))

	return &OptimizeResult{RunID: runID, Status: StatusOK, Routes: sol.Routes}, nil
}

// buildNodeCosts translates the coordinate-space matrix into node space.
//
// The matrix is indexed over deduplicated coordinates while routing nodes
// are the raw delivery records (which repeat coordinates, e.g. the shared
// start point). This is the single place where the two index spaces meet:
// node i resolves to its record's customer coordinate, except the depot
// node which resolves to its start coordinate. Solver and persistence both
// operate on the node-space result and never see coordinate indices.
func buildNodeCosts(
	deliveries []domain.Delivery,
	coordSet *domain.CoordinateSet,
	matrix domain.DistanceMatrix,
	depotIndex int,
) ([][]*float64, error) {
	if len(matrix) != coordSet.Len() {
		return nil, fmt.Errorf("matrix has %d rows for %d unique coordinates", len(matrix), coordSet.Len())
	}

	n := len(deliveries)
	nodeCoord := make([]int, n)
	for i, d := range deliveries {
		coord := d.CustomerCoord
		if i == depotIndex {
			coord = d.StartCoord
		}

		ci, ok := coordSet.Index(coord)
		if !ok {
			return nil, fmt.Errorf("delivery %d: coordinate missing from coordinate set", i)
		}
		nodeCoord[i] = ci
	}

	costs := make([][]*float64, n)
	for i := range costs {
		costs[i] = make([]*float64, n)
		for j := range costs[i] {
			costs[i][j] = matrix[nodeCoord[i]][nodeCoord[j]]
		}
	}

	return costs, nil
}

// collectEdges translates solved routes into persistable edges. For each
// consecutive (from, to) pair the key comes from the delivery record at the
// from index and the value from the node-space cost cell; a missing cell
// falls back to fallbackKM so downstream consumers always see a distance.
// Self-pairs (depot-only tours) carry no travel and persist nothing.
func collectEdges(routes [][]int, deliveries []domain.Delivery, costs [][]*float64, fallbackKM float64) []domain.OptimizedEdge {
	n := len(deliveries)
	edges := make([]domain.OptimizedEdge, 0, n)

	for _, route := range routes {
		for k := 0; k+1 < len(route); k++ {
			from, to := route[k], route[k+1]
			if from < 0 || from >= n || to < 0 || to >= n {
				continue
			}
			if from == to {
				continue
			}

			km := fallbackKM
			if c := costs[from][to]; c != nil {
				km = *c / 1000
			}

			rec := deliveries[from]
			edges = append(edges, domain.OptimizedEdge{
				StartLocation:    rec.StartLocation,
				CustomerLocation: rec.CustomerLocation,
				DistanceKM:       km,
			})
		}
	}

	return edges
}

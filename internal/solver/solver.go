package solver

import (
	"errors"
	"fmt"
)

// DefaultPenaltyMeters is the arc cost assigned to node pairs the distance
// provider could not measure. It is large enough to discourage such arcs but
// finite, so the problem always stays feasible.
const DefaultPenaltyMeters = 200000

// ErrNoSolution reports that no route assignment exists for the given
// vehicle/node configuration. It is an expected outcome, not a crash:
// callers log it and abort the run without persisting anything.
var ErrNoSolution = errors.New("no feasible route assignment")

// Strategy selects the constructive first-solution heuristic. No local
// search runs afterwards: the result is the first feasible solution found,
// a deliberate speed/quality tradeoff that keeps runs fast and repeatable.
type Strategy int

const (
	// CheapestArc repeatedly extends the partial solution by the globally
	// cheapest arc from any vehicle's route end to an unvisited node.
	CheapestArc Strategy = iota
	// NearestNeighbor lets vehicles take turns extending with their own
	// nearest unvisited node.
	NearestNeighbor
)

// ParseStrategy maps a configuration name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "cheapest_arc":
		return CheapestArc, nil
	case "nearest_neighbor":
		return NearestNeighbor, nil
	default:
		return 0, fmt.Errorf("parse strategy: unknown strategy %q", name)
	}
}

// Problem is a capacity-free multi-vehicle routing instance over a
// node-space cost matrix. Costs[i][j] is the travel cost in meters from
// node i to node j; nil entries are charged PenaltyMeters.
type Problem struct {
	Costs         [][]*float64
	NumVehicles   int
	Depot         int
	PenaltyMeters float64
	Strategy      Strategy
}

// Solution holds one closed tour per vehicle. Every route begins and ends
// at the depot node; a vehicle left unused yields a depot-only tour.
type Solution struct {
	Routes [][]int
}

// Solve constructs one route per vehicle using the configured first-solution
// strategy. It returns ErrNoSolution for configurations that admit no
// assignment (no vehicles, no nodes, depot out of range).
func Solve(p Problem) (*Solution, error) {
	n := len(p.Costs)

	if p.NumVehicles < 1 || n == 0 || p.Depot < 0 || p.Depot >= n {
		return nil, ErrNoSolution
	}
	for i, row := range p.Costs {
		if len(row) != n {
			return nil, fmt.Errorf("solve: cost row %d has length %d, want %d", i, len(row), n)
		}
	}

	penalty := p.PenaltyMeters
	if penalty <= 0 {
		penalty = DefaultPenaltyMeters
	}

	cost := func(i, j int) float64 {
		if c := p.Costs[i][j]; c != nil {
			return *c
		}
		return penalty
	}

	var routes [][]int
	switch p.Strategy {
	case NearestNeighbor:
		routes = buildNearestNeighbor(n, p.NumVehicles, p.Depot, cost)
	default:
		routes = buildCheapestArc(n, p.NumVehicles, p.Depot, cost)
	}

	// Close every tour at the depot.
	for v := range routes {
		routes[v] = append(routes[v], p.Depot)
	}

	return &Solution{Routes: routes}, nil
}

// buildCheapestArc grows all routes at once, always committing the cheapest
// arc from any vehicle's current end to an unvisited node. Ties break on
// vehicle index, then node index, so the result is reproducible.
func buildCheapestArc(n, numVehicles, depot int, cost func(i, j int) float64) [][]int {
	routes := make([][]int, numVehicles)
	ends := make([]int, numVehicles)
	for v := 0; v < numVehicles; v++ {
		routes[v] = []int{depot}
		ends[v] = depot
	}

	visited := make([]bool, n)
	visited[depot] = true
	remaining := n - 1

	for remaining > 0 {
		bestVehicle, bestNode := -1, -1
		bestCost := 0.0

		for v := 0; v < numVehicles; v++ {
			for node := 0; node < n; node++ {
				if visited[node] {
					continue
				}
				c := cost(ends[v], node)
				if bestNode == -1 || c < bestCost {
					bestVehicle, bestNode, bestCost = v, node, c
				}
			}
		}

		routes[bestVehicle] = append(routes[bestVehicle], bestNode)
		ends[bestVehicle] = bestNode
		visited[bestNode] = true
		remaining--
	}

	return routes
}

// buildNearestNeighbor rotates through the vehicles, each extending with the
// unvisited node nearest to its own route end.
func buildNearestNeighbor(n, numVehicles, depot int, cost func(i, j int) float64) [][]int {
	routes := make([][]int, numVehicles)
	ends := make([]int, numVehicles)
	for v := 0; v < numVehicles; v++ {
		routes[v] = []int{depot}
		ends[v] = depot
	}

	visited := make([]bool, n)
	visited[depot] = true
	remaining := n - 1

	for turn := 0; remaining > 0; turn++ {
		v := turn % numVehicles

		bestNode := -1
		bestCost := 0.0
		for node := 0; node < n; node++ {
			if visited[node] {
				continue
			}
			c := cost(ends[v], node)
			if bestNode == -1 || c < bestCost {
				bestNode, bestCost = node, c
			}
		}

		routes[v] = append(routes[v], bestNode)
		ends[v] = bestNode
		visited[bestNode] = true
		remaining--
	}

	return routes
}

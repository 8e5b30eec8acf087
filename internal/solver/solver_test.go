package solver

import (
	"errors"
	"reflect"
	"testing"
)

func f(v float64) *float64 { return &v }

func fullMatrix(rows [][]float64) [][]*float64 {
	out := make([][]*float64, len(rows))
	for i, row := range rows {
		out[i] = make([]*float64, len(row))
		for j, v := range row {
			out[i][j] = f(v)
		}
	}
	return out
}

func TestSolveCheapestArcCoversAllCustomers(t *testing.T) {
	// 1 depot + 4 customers, fully populated matrix, 2 vehicles.
	costs := fullMatrix([][]float64{
		{0, 10, 25, 30, 45},
		{10, 0, 12, 28, 40},
		{25, 12, 0, 15, 22},
		{30, 28, 15, 0, 11},
		{45, 40, 22, 11, 0},
	})

	sol, err := Solve(Problem{Costs: costs, NumVehicles: 2, Depot: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sol.Routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(sol.Routes))
	}

	seen := map[int]int{}
	for v, route := range sol.Routes {
		if len(route) < 2 {
			t.Fatalf("vehicle %d: route too short: %v", v, route)
		}
		if route[0] != 0 || route[len(route)-1] != 0 {
			t.Fatalf("vehicle %d: route must start and end at depot: %v", v, route)
		}
		for _, node := range route[1 : len(route)-1] {
			seen[node]++
		}
	}

	for node := 1; node <= 4; node++ {
		if seen[node] != 1 {
			t.Fatalf("customer %d visited %d times, want exactly 1", node, seen[node])
		}
	}
}

func TestSolveReturnsOneRoutePerVehicle(t *testing.T) {
	costs := fullMatrix([][]float64{
		{0, 5},
		{5, 0},
	})

	sol, err := Solve(Problem{Costs: costs, NumVehicles: 3, Depot: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sol.Routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(sol.Routes))
	}
	for v, route := range sol.Routes {
		if route[0] != 0 {
			t.Fatalf("vehicle %d: route does not begin at depot: %v", v, route)
		}
	}
}

func TestSolveNoSolution(t *testing.T) {
	costs := fullMatrix([][]float64{{0}})

	cases := []struct {
		name string
		p    Problem
	}{
		{"zero vehicles", Problem{Costs: costs, NumVehicles: 0, Depot: 0}},
		{"empty matrix", Problem{Costs: nil, NumVehicles: 2, Depot: 0}},
		{"depot out of range", Problem{Costs: costs, NumVehicles: 1, Depot: 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Solve(tc.p); !errors.Is(err, ErrNoSolution) {
				t.Fatalf("expected ErrNoSolution, got %v", err)
			}
		})
	}
}

func TestSolvePenalizesUnknownArcs(t *testing.T) {
	// Depot->1 is unknown; the cheaper detour through node 2 must win.
	costs := [][]*float64{
		{f(0), nil, f(10)},
		{f(10), f(0), f(10)},
		{f(10), f(5), f(0)},
	}

	sol, err := Solve(Problem{Costs: costs, NumVehicles: 1, Depot: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{0, 2, 1, 0}
	if !reflect.DeepEqual(sol.Routes[0], want) {
		t.Fatalf("route = %v, want %v", sol.Routes[0], want)
	}
}

func TestSolveDeterministic(t *testing.T) {
	costs := fullMatrix([][]float64{
		{0, 10, 10, 10},
		{10, 0, 10, 10},
		{10, 10, 0, 10},
		{10, 10, 10, 0},
	})

	first, err := Solve(Problem{Costs: costs, NumVehicles: 2, Depot: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Solve(Problem{Costs: costs, NumVehicles: 2, Depot: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Routes, second.Routes) {
		t.Fatalf("solver not deterministic: %v vs %v", first.Routes, second.Routes)
	}
}

func TestSolveNearestNeighborRotatesVehicles(t *testing.T) {
	costs := fullMatrix([][]float64{
		{0, 10, 25, 30, 45},
		{10, 0, 12, 28, 40},
		{25, 12, 0, 15, 22},
		{30, 28, 15, 0, 11},
		{45, 40, 22, 11, 0},
	})

	sol, err := Solve(Problem{Costs: costs, NumVehicles: 2, Depot: 0, Strategy: NearestNeighbor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for v, route := range sol.Routes {
		// Two vehicles splitting four customers in turns: two each.
		if len(route) != 4 {
			t.Fatalf("vehicle %d: expected 2 customers per vehicle, got route %v", v, route)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy("cheapest_arc"); err != nil || s != CheapestArc {
		t.Fatalf("cheapest_arc: got (%v, %v)", s, err)
	}
	if s, err := ParseStrategy("nearest_neighbor"); err != nil || s != NearestNeighbor {
		t.Fatalf("nearest_neighbor: got (%v, %v)", s, err)
	}
	if _, err := ParseStrategy("simulated_annealing"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

package repositories

import (
	"context"
	"database/sql"
	"delivery-optimization-service/internal/domain"
	"delivery-optimization-service/internal/ports"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection so every statement sees the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSQLiteSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return db
}

func edgeCount(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM optimized_routes;`).Scan(&n); err != nil {
		t.Fatalf("count edges: %v", err)
	}
	return n
}

func TestUpsertEdgesOverwrites(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteRouteRepository(db)
	ctx := context.Background()

	first := []domain.OptimizedEdge{
		{StartLocation: "Secunderabad Junction", CustomerLocation: "Chennai Central", DistanceKM: 625.4},
		{StartLocation: "Secunderabad Junction", CustomerLocation: "Pune Junction", DistanceKM: 560.1},
	}
	if err := repo.UpsertEdges(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if n := edgeCount(t, db); n != 2 {
		t.Fatalf("edge count = %d, want 2", n)
	}

	// Re-writing one key must update the value in place, not add a row.
	update := []domain.OptimizedEdge{
		{StartLocation: "Secunderabad Junction", CustomerLocation: "Chennai Central", DistanceKM: 630.0},
	}
	if err := repo.UpsertEdges(ctx, update); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if n := edgeCount(t, db); n != 2 {
		t.Fatalf("edge count after overwrite = %d, want 2", n)
	}

	km, err := repo.GetEdgeDistance(ctx, "Secunderabad Junction", "Chennai Central")
	if err != nil {
		t.Fatalf("get edge distance: %v", err)
	}
	if km != 630.0 {
		t.Fatalf("distance = %v, want 630.0", km)
	}

	// The untouched key keeps its value.
	km, err = repo.GetEdgeDistance(ctx, "Secunderabad Junction", "Pune Junction")
	if err != nil {
		t.Fatalf("get edge distance: %v", err)
	}
	if km != 560.1 {
		t.Fatalf("distance = %v, want 560.1", km)
	}
}

func TestUpsertEdgesIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteRouteRepository(db)
	ctx := context.Background()

	edges := []domain.OptimizedEdge{
		{StartLocation: "A", CustomerLocation: "B", DistanceKM: 12.5},
	}

	for i := 0; i < 2; i++ {
		if err := repo.UpsertEdges(ctx, edges); err != nil {
			t.Fatalf("upsert #%d: %v", i+1, err)
		}
	}

	if n := edgeCount(t, db); n != 1 {
		t.Fatalf("edge count = %d, want 1", n)
	}
}

func TestGetEdgeDistanceNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteRouteRepository(db)

	_, err := repo.GetEdgeDistance(context.Background(), "A", "B")
	if !errors.Is(err, ports.ErrEdgeNotFound) {
		t.Fatalf("expected ErrEdgeNotFound, got %v", err)
	}
}

func TestSeedAndListDeliveries(t *testing.T) {
	db := openTestDB(t)

	seedPath := filepath.Join(t.TempDir(), "deliveries.json")
	seed := `[
		{
			"order_id": "ORD001",
			"start_location": "Secunderabad Junction",
			"customer_location": "Chennai Central",
			"start_latitude": 17.4344,
			"start_longitude": 78.5013,
			"customer_latitude": 13.0827,
			"customer_longitude": 80.2757,
			"order_priority": "High",
			"delivery_time": 95.5,
			"vehicle_id": "VEH1"
		},
		{
			"order_id": "ORD002",
			"start_location": "Secunderabad Junction",
			"customer_location": "Pune Junction",
			"start_latitude": 17.4344,
			"start_longitude": 78.5013,
			"customer_latitude": 18.5289,
			"customer_longitude": 73.8744,
			"order_priority": "Low",
			"delivery_time": 60.0,
			"vehicle_id": "VEH2"
		}
	]`
	if err := os.WriteFile(seedPath, []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	if err := SeedSQLiteFromJSON(db, seedPath); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// A second seed run must be a no-op.
	if err := SeedSQLiteFromJSON(db, seedPath); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	repo := NewSqliteDeliveryRepository(db)
	deliveries, err := repo.ListDeliveries(context.Background())
	if err != nil {
		t.Fatalf("list deliveries: %v", err)
	}

	if len(deliveries) != 2 {
		t.Fatalf("delivery count = %d, want 2", len(deliveries))
	}
	if deliveries[0].OrderID != "ORD001" || deliveries[1].OrderID != "ORD002" {
		t.Fatalf("unexpected order: %v, %v", deliveries[0].OrderID, deliveries[1].OrderID)
	}
	if deliveries[0].CustomerCoord != (domain.Coordinates{Lon: 80.2757, Lat: 13.0827}) {
		t.Fatalf("unexpected customer coordinates: %+v", deliveries[0].CustomerCoord)
	}
}

func TestListTrainingSamplesJoin(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`
	INSERT INTO deliveries (
		order_id, start_location, customer_location,
		start_latitude, start_longitude, customer_latitude, customer_longitude,
		order_priority, delivery_time, vehicle_id
	) VALUES
		('ORD001', 'Hub', 'Chennai Central', 17.4, 78.5, 13.1, 80.3, 'High', 95.5, 'VEH1'),
		('ORD002', 'Hub', 'Pune Junction', 17.4, 78.5, 18.5, 73.9, 'Low', 60.0, 'VEH2');
	`)
	if err != nil {
		t.Fatalf("insert deliveries: %v", err)
	}

	repo := NewSqliteRouteRepository(db)
	if err := repo.UpsertEdges(ctx, []domain.OptimizedEdge{
		{StartLocation: "Hub", CustomerLocation: "Chennai Central", DistanceKM: 625.4},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	samples, err := repo.ListTrainingSamples(ctx)
	if err != nil {
		t.Fatalf("list training samples: %v", err)
	}

	if len(samples) != 2 {
		t.Fatalf("sample count = %d, want 2", len(samples))
	}
	if samples[0].DistanceKM == nil || *samples[0].DistanceKM != 625.4 {
		t.Fatalf("sample 0 distance = %v, want 625.4", samples[0].DistanceKM)
	}
	// No optimization has touched ORD002's edge: distance must be nil.
	if samples[1].DistanceKM != nil {
		t.Fatalf("sample 1 distance = %v, want nil", *samples[1].DistanceKM)
	}
}

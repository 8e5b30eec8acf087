package repositories

import (
	"context"
	"database/sql"
	"delivery-optimization-service/internal/domain"
	"delivery-optimization-service/internal/platform/obs"
	"delivery-optimization-service/internal/ports"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the RouteRepository port.
type PostgresRouteRepository struct{ DB *sql.DB }

func NewPostgresRouteRepository(db *sql.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{DB: db}
}

// UpsertEdges writes each edge with insert-or-update semantics, one statement
// per edge. The loop is deliberately not wrapped in a transaction: edges
// written before a failure stay applied, matching the run's at-least-partial
// persistence contract.
func (s *PostgresRouteRepository) UpsertEdges(ctx context.Context, edges []domain.OptimizedEdge) (err error) {
	defer obs.Time(ctx, "routes.pg.UpsertEdges")(&err)

	if s.DB == nil {
		return errors.New("postgres route repository: DB is nil")
	}

	if len(edges) == 0 {
		return nil
	}

	stmt, err := s.DB.PrepareContext(ctx, `
	INSERT INTO optimized_routes (start_location, customer_location, optimized_distance_km)
	VALUES ($1, $2, $3)
	ON CONFLICT (start_location, customer_location) DO UPDATE
	SET optimized_distance_km = EXCLUDED.optimized_distance_km;
	`)
	if err != nil {
		return fmt.Errorf("upsert edges: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.ExecContext(ctx, e.StartLocation, e.CustomerLocation, e.DistanceKM); err != nil {
			return fmt.Errorf("upsert edges: %q -> %q: %w", e.StartLocation, e.CustomerLocation, err)
		}
	}

	return nil
}

// GetEdgeDistance returns the stored distance for one edge key.
func (s *PostgresRouteRepository) GetEdgeDistance(ctx context.Context, startLocation, customerLocation string) (float64, error) {
	if s.DB == nil {
		return 0, errors.New("postgres route repository: DB is nil")
	}

	var km float64
	err := s.DB.QueryRowContext(ctx, `
	SELECT optimized_distance_km
	FROM optimized_routes
	WHERE start_location = $1 AND customer_location = $2;
	`, startLocation, customerLocation).Scan(&km)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ports.ErrEdgeNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get edge distance: %q -> %q: %w", startLocation, customerLocation, err)
	}

	return km, nil
}

// ListTrainingSamples joins deliveries with their optimized edges. Rows
// without an optimized edge yet carry a nil distance.
func (s *PostgresRouteRepository) ListTrainingSamples(ctx context.Context) (_ []domain.TrainingSample, err error) {
	defer obs.Time(ctx, "routes.pg.ListTrainingSamples")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres route repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		d.customer_location,
		d.customer_latitude,
		d.customer_longitude,
		d.order_priority,
		d.delivery_time,
		o.optimized_distance_km
	FROM deliveries d
	LEFT JOIN optimized_routes o
		ON d.start_location = o.start_location AND d.customer_location = o.customer_location
	ORDER BY d.id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list training samples: query: %w", err)
	}
	defer rows.Close()

	samples := make([]domain.TrainingSample, 0, 64)
	for rows.Next() {
		var s domain.TrainingSample
		var km sql.NullFloat64
		err := rows.Scan(
			&s.CustomerLocation,
			&s.CustomerCoord.Lat,
			&s.CustomerCoord.Lon,
			&s.Priority,
			&s.DeliveryTime,
			&km,
		)
		if err != nil {
			return nil, fmt.Errorf("list training samples: scan row: %w", err)
		}
		if km.Valid {
			v := km.Float64
			s.DistanceKM = &v
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list training samples: row iteration: %w", err)
	}

	return samples, nil
}

package repositories

import (
	"context"
	"database/sql"
	"delivery-optimization-service/internal/domain"
	"delivery-optimization-service/internal/ports"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the RouteRepository port.
type SqliteRouteRepository struct{ DB *sql.DB }

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

// UpsertEdges writes each edge with insert-or-update semantics, one statement
// per edge and no wrapping transaction; see PostgresRouteRepository.
func (s *SqliteRouteRepository) UpsertEdges(ctx context.Context, edges []domain.OptimizedEdge) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}

	if len(edges) == 0 {
		return nil
	}

	stmt, err := s.DB.PrepareContext(ctx, `
	INSERT INTO optimized_routes (start_location, customer_location, optimized_distance_km)
	VALUES (?, ?, ?)
	ON CONFLICT (start_location, customer_location) DO UPDATE
	SET optimized_distance_km = excluded.optimized_distance_km;
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
func (s *SqliteRouteRepository) GetEdgeDistance(ctx context.Context, startLocation, customerLocation string) (float64, error) {
	if s.DB == nil {
		return 0, errors.New("sqlite route repository: DB is nil")
	}

	var km float64
	err := s.DB.QueryRowContext(ctx, `
	SELECT optimized_distance_km
	FROM optimized_routes
	WHERE start_location = ? AND customer_location = ?;
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
func (s *SqliteRouteRepository) ListTrainingSamples(ctx context.Context) ([]domain.TrainingSample, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
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
		var sample domain.TrainingSample
		var km sql.NullFloat64
		err := rows.Scan(
			&sample.CustomerLocation,
			&sample.CustomerCoord.Lat,
			&sample.CustomerCoord.Lon,
			&sample.Priority,
			&sample.DeliveryTime,
			&km,
		)
		if err != nil {
			return nil, fmt.Errorf("list training samples: scan row: %w", err)
		}
		if km.Valid {
			v := km.Float64
			sample.DistanceKM = &v
		}
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list training samples: row iteration: %w", err)
	}

	return samples, nil
}

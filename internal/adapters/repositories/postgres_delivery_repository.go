package repositories

import (
	"context"
	"database/sql"
	"delivery-optimization-service/internal/domain"
	"delivery-optimization-service/internal/platform/obs"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the DeliveryRepository port.
type PostgresDeliveryRepository struct{ DB *sql.DB }

func NewPostgresDeliveryRepository(db *sql.DB) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{DB: db}
}

// Return all deliveries in stable id order.
func (s *PostgresDeliveryRepository) ListDeliveries(ctx context.Context) (_ []domain.Delivery, err error) {
	defer obs.Time(ctx, "deliveries.pg.List")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres delivery repository: DB is nil")
	}

	query := `
	SELECT
		id,
		order_id,
		start_location,
		customer_location,
		start_latitude,
		start_longitude,
		customer_latitude,
		customer_longitude,
		order_priority,
		delivery_time,
		vehicle_id
	FROM deliveries
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: query deliveries table: %w", err)
	}
	defer rows.Close()

	deliveries := make([]domain.Delivery, 0, 64)
	for rows.Next() {
		var d domain.Delivery
		err := rows.Scan(
			&d.ID,
			&d.OrderID,
			&d.StartLocation,
			&d.CustomerLocation,
			&d.StartCoord.Lat,
			&d.StartCoord.Lon,
			&d.CustomerCoord.Lat,
			&d.CustomerCoord.Lon,
			&d.Priority,
			&d.DeliveryTime,
			&d.VehicleID,
		)
		if err != nil {
			return nil, fmt.Errorf("list deliveries: scan row: %w", err)
		}
		deliveries = append(deliveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deliveries: row iteration: %w", err)
	}

	return deliveries, nil
}

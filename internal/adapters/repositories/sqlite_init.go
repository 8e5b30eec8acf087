package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSQLiteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS deliveries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id TEXT NOT NULL,
		start_location TEXT NOT NULL,
		customer_location TEXT NOT NULL,
		start_latitude REAL NOT NULL,
		start_longitude REAL NOT NULL,
		customer_latitude REAL NOT NULL,
		customer_longitude REAL NOT NULL,
		order_priority TEXT NOT NULL,
		delivery_time REAL NOT NULL,
		vehicle_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	createOptimizedRoutesQuery := `
	CREATE TABLE IF NOT EXISTS optimized_routes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_location TEXT NOT NULL,
		customer_location TEXT NOT NULL,
		optimized_distance_km REAL NOT NULL,
		UNIQUE (start_location, customer_location)
	);
	`

	statements := []string{
		createDeliveriesQuery,
		createOptimizedRoutesQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the deliveries table from a JSON seed file. Seeding is skipped
// when data already exists, so repeated startups stay idempotent.
func SeedSQLiteFromJSON(db *sql.DB, jsonPath string) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM deliveries;`).Scan(&count); err != nil {
		return fmt.Errorf("seed deliveries: count rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	rows, err := loadSeedFile(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed deliveries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT INTO deliveries (
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
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed deliveries: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range rows {
		_, err := stmt.Exec(
			d.OrderID,
			d.StartLocation,
			d.CustomerLocation,
			d.StartLatitude,
			d.StartLongitude,
			d.CustomerLatitude,
			d.CustomerLongitude,
			d.OrderPriority,
			d.DeliveryTime,
			d.VehicleID,
		)
		if err != nil {
			return fmt.Errorf("seed deliveries: insert order_id=%q: %w", d.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed deliveries: commit tx: %w", err)
	}

	return nil
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitSchemaPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS appointments (
			appointment_id TEXT PRIMARY KEY,
			technician_id TEXT NOT NULL,
			day TEXT NOT NULL,
			start_minutes INTEGER NOT NULL,
			end_minutes INTEGER NOT NULL,
			duration_minutes INTEGER NOT NULL,
			service_type TEXT NOT NULL,
			address TEXT NOT NULL,
			postal_code TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lng DOUBLE PRECISION NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lat DOUBLE PRECISION NOT NULL,
			lng DOUBLE PRECISION NOT NULL,
			postal_code TEXT NOT NULL DEFAULT ''
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_appointments_technician_day
		ON appointments(technician_id, day);
		`,
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

// Populate the Postgres database with appointment data from a JSON file.
func SeedFromJSONPostgres(db *sql.DB, jsonPath string) error {
	appts, err := loadSeedFile(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed appointments: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO appointments (
		appointment_id,
		technician_id,
		day,
		start_minutes,
		end_minutes,
		duration_minutes,
		service_type,
		address,
		postal_code,
		lat,
		lng
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (appointment_id) DO UPDATE
	SET technician_id = EXCLUDED.technician_id,
		day = EXCLUDED.day,
		start_minutes = EXCLUDED.start_minutes,
		end_minutes = EXCLUDED.end_minutes,
		duration_minutes = EXCLUDED.duration_minutes,
		service_type = EXCLUDED.service_type,
		address = EXCLUDED.address,
		postal_code = EXCLUDED.postal_code,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed appointments: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range appts {
		if _, err := stmt.Exec(
			a.ID.String(),
			a.TechnicianID.String(),
			a.Date.Format(dayFormat),
			int(a.Start),
			int(a.End),
			a.DurationMinutes,
			string(a.ServiceType),
			a.Location.Address,
			a.Location.PostalCode,
			a.Location.Lat,
			a.Location.Lng,
		); err != nil {
			return fmt.Errorf("seed appointments: insert appointment_id=%s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed appointments: commit tx: %w", err)
	}

	return nil
}

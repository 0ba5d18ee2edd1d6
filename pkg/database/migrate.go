package database

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	verified BOOLEAN NOT NULL DEFAULT FALSE,
	otp_code TEXT NOT NULL DEFAULT '',
	otp_expires_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS drivers (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL UNIQUE REFERENCES users(id),
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	license_number TEXT NOT NULL UNIQUE,
	vehicle_make TEXT NOT NULL DEFAULT '',
	vehicle_model TEXT NOT NULL DEFAULT '',
	vehicle_year INT NOT NULL DEFAULT 0,
	vehicle_color TEXT NOT NULL DEFAULT '',
	plate_number TEXT NOT NULL UNIQUE,
	current_latitude DOUBLE PRECISION,
	current_longitude DOUBLE PRECISION,
	last_location_update TIMESTAMPTZ,
	is_available BOOLEAN NOT NULL DEFAULT TRUE,
	is_online BOOLEAN NOT NULL DEFAULT FALSE,
	rating DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_rides INT NOT NULL DEFAULT 0,
	total_earnings DOUBLE PRECISION NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS rides (
	id UUID PRIMARY KEY,
	driver_id UUID NOT NULL REFERENCES drivers(id),
	passenger_id UUID NOT NULL REFERENCES users(id),
	origin_address TEXT NOT NULL DEFAULT '',
	origin_latitude DOUBLE PRECISION NOT NULL,
	origin_longitude DOUBLE PRECISION NOT NULL,
	destination_address TEXT NOT NULL DEFAULT '',
	destination_latitude DOUBLE PRECISION NOT NULL,
	destination_longitude DOUBLE PRECISION NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	estimated_fare DOUBLE PRECISION NOT NULL,
	final_fare DOUBLE PRECISION,
	distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
	duration_minutes INT NOT NULL DEFAULT 0,
	start_time TIMESTAMPTZ,
	end_time TIMESTAMPTZ,
	pickup_time TIMESTAMPTZ,
	dropoff_time TIMESTAMPTZ,
	payment_method TEXT NOT NULL DEFAULT 'cash',
	payment_status TEXT NOT NULL DEFAULT 'pending',
	cancellation_reason TEXT NOT NULL DEFAULT '',
	cancelled_by TEXT NOT NULL DEFAULT '',
	driver_rating INT,
	passenger_rating INT,
	driver_comment TEXT NOT NULL DEFAULT '',
	passenger_comment TEXT NOT NULL DEFAULT '',
	route_polyline TEXT NOT NULL DEFAULT '',
	route_waypoints JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_rides_driver_status ON rides (driver_id, status);
CREATE INDEX IF NOT EXISTS idx_rides_passenger_status ON rides (passenger_id, status);
CREATE INDEX IF NOT EXISTS idx_rides_status_created ON rides (status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_drivers_available ON drivers (is_available, is_online);
`

// Migrate creates the schema if it does not exist yet
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

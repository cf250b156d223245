package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the reservation core relies on.
// The unique (bus_id, seat) index is the backstop that makes a double-booked
// seat impossible even if a code path skips the row lock.
func MigrateConstraints(db *gorm.DB) error {
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_seat_per_bus
		ON seat_bookings (bus_id, seat);
	`).Error
	if err != nil {
		return err
	}

	// Rider lookups during cancel and availability reads
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seat_bookings_bus_user
		ON seat_bookings (bus_id, user_id);
	`).Error
	if err != nil {
		return err
	}

	// Ledger lookups by owner, newest first
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_user_created
		ON bookings (user_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}

package database

import (
	"swiftbus/internal/bookings"
	"swiftbus/internal/buses"
	"swiftbus/internal/reservations"
	"swiftbus/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&buses.Bus{},
		&reservations.SeatBooking{},
		&bookings.Booking{},
	)
}

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"swiftbus/internal/buses"
	"swiftbus/internal/shared/config"
	"swiftbus/internal/shared/database"
	"swiftbus/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting SwiftBus Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"bookings",
		"seat_bookings",
		"buses",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedBuses(); err != nil {
		return fmt.Errorf("failed to seed buses: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates 1 admin and 2 riders
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		email string
		role  users.Role
	}{
		{"admin@swiftbus.dev", users.RoleAdmin},
		{"rider1@swiftbus.dev", users.RoleRider},
		{"rider2@swiftbus.dev", users.RoleRider},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return nil
}

// SeedBuses creates the sample bus inventory
func (s *Seeder) SeedBuses() error {
	fmt.Println("  🚌 Seeding buses...")

	departureBase := time.Now().AddDate(0, 0, 7).Truncate(time.Hour)

	busesData := []buses.Bus{
		{
			Name:          "Express Deluxe",
			BusNumber:     "DL01AB1234",
			Operator:      "Delhi Transport Corp",
			Origin:        "Delhi",
			Destination:   "Mumbai",
			DepartureTime: departureBase.Add(8 * time.Hour),
			ArrivalTime:   departureBase.Add(30 * time.Hour),
			Duration:      "22h 0m",
			Price:         1200,
			BusType:       "AC",
			Amenities:     []string{"WiFi", "AC", "Charging Point", "Entertainment"},
			TotalSeats:    40,
		},
		{
			Name:          "Comfort Plus",
			BusNumber:     "MH02CD5678",
			Operator:      "Maharashtra State Transport",
			Origin:        "Mumbai",
			Destination:   "Pune",
			DepartureTime: departureBase.Add(14*time.Hour + 30*time.Minute),
			ArrivalTime:   departureBase.Add(18 * time.Hour),
			Duration:      "3h 30m",
			Price:         450,
			BusType:       "Semi-Sleeper",
			Amenities:     []string{"AC", "Charging Point", "Water Bottle"},
			TotalSeats:    35,
		},
		{
			Name:          "Night Rider",
			BusNumber:     "KA03EF9012",
			Operator:      "Karnataka State Transport",
			Origin:        "Bangalore",
			Destination:   "Chennai",
			DepartureTime: departureBase.Add(22 * time.Hour),
			ArrivalTime:   departureBase.Add(29*time.Hour + 30*time.Minute),
			Duration:      "7h 30m",
			Price:         800,
			BusType:       "Sleeper",
			Amenities:     []string{"AC", "Blanket", "Pillow", "Reading Light"},
			TotalSeats:    30,
		},
	}

	for i := range busesData {
		bus := &busesData[i]
		bus.ID = uuid.New()
		bus.AvailableSeats = bus.TotalSeats
		bus.IsActive = true

		if err := s.db.PostgreSQL.Create(bus).Error; err != nil {
			return fmt.Errorf("failed to create bus %s: %w", bus.BusNumber, err)
		}

		fmt.Printf("    ✅ Created bus: %s (%s → %s)\n", bus.Name, bus.Origin, bus.Destination)
	}

	return nil
}

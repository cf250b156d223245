package auth

import (
	"context"
	"regexp"
	"testing"
	"time"

	"swiftbus/internal/users"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return db, mock
}

func TestGetUserByEmailFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "email", "password", "role", "created_at", "updated_at"}).
		AddRow(userID, "rider@example.com", "hashed", "RIDER", time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("rider@example.com", 1).
		WillReturnRows(rows)

	user, err := repo.GetUserByEmail(context.Background(), "rider@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if user.ID != userID {
		t.Errorf("expected user id %s, got %s", userID, user.ID)
	}
	if user.Role != users.RoleRider {
		t.Errorf("expected role RIDER, got %s", user.Role)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetUserByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("ghost@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUserByEmail(context.Background(), "ghost@example.com")
	if err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestEmailExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WithArgs("rider@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.EmailExists(context.Background(), "rider@example.com")
	if err != nil {
		t.Fatalf("EmailExists failed: %v", err)
	}
	if !exists {
		t.Error("expected email to exist")
	}
}

package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleRider Role = "RIDER"
	RoleAdmin Role = "ADMIN"
)

// User is an account record. Riders book seats, admins manage the bus
// inventory. Role never changes after signup and accounts are never deleted.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash, hidden in json
	Role      Role      `json:"role" gorm:"not null;default:'RIDER'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleRider), string(RoleAdmin):
		return true
	default:
		return false
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role represents what a user does in the retail operation
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleManager    Role = "manager"
	RoleSales      Role = "sales"
	RoleDataEntry  Role = "dataentry"
)

// User represents a staff account. Records produced by the engine (sales,
// transfer requests, ledger entries) reference users by id and display name.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string     `gorm:"not null;size:255" json:"-"`
	FullName    string     `gorm:"not null;size:100" json:"full_name"`
	Role        Role       `gorm:"size:20;default:'sales'" json:"role"`
	Location    string     `gorm:"size:50" json:"location"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	IsAdmin     bool       `gorm:"default:false" json:"is_admin"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// Actor identifies who performed a mutating command
type Actor struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// AsActor returns the actor identity for this user
func (u *User) AsActor() Actor {
	return Actor{ID: u.ID, Name: u.FullName}
}

// BeforeCreate hook normalizes the email before persisting
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

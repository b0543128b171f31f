package model

import "time"

// UserRole separates customers from support administrators.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User is an account identified by phone number.
type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Phone     string    `gorm:"uniqueIndex;type:varchar(32);not null" json:"phone"`
	Role      UserRole  `gorm:"type:varchar(16);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName maps users onto the users collection.
func (User) TableName() string { return "users" }

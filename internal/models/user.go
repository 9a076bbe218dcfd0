package models

import "gorm.io/gorm"

// Role enumerates the capability level of a user account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleBroker Role = "broker"
	RoleUser   Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBroker, RoleUser:
		return true
	}
	return false
}

// UserStatus marks whether an account may log in.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User represents an account of the brokerage.
type User struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string     `json:"name" validate:"required,min=2,max=100"`
	Email      string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Role       Role       `json:"role" gorm:"type:varchar(20)"`
	Status     UserStatus `json:"status" gorm:"type:varchar(20)"`
	JoinDate   string     `json:"joinDate" gorm:"type:varchar(10)"`
	LastLogin  string     `json:"lastLogin" gorm:"type:varchar(30)"`
	Password   string     `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	gorm.Model `json:"-"`
}

// Sanitized returns a copy of the user with the password hash removed.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// Package models contains data structures for the application's domain models.
package models

import "time"

// User roles. Anything else in the role column is treated as a plain user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered forum account.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `gorm:"not null" json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Role        string    `gorm:"not null;default:user" json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

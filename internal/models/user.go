// Package models contains data structures for the application's domain models.
package models

import "time"

// AuthProvider identifies how a user account authenticates.
type AuthProvider string

const (
	// ProviderLocal is an email+password account.
	ProviderLocal AuthProvider = "local"
	// ProviderGoogle is an account created through Google OAuth.
	ProviderGoogle AuthProvider = "google"
)

// OAuthPasswordSentinel is stored in the password column for accounts that
// have no local password. It never matches a bcrypt comparison.
const OAuthPasswordSentinel = "google-oauth"

// User represents a registered account.
type User struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Username  string       `gorm:"size:60;not null" json:"username"`
	Email     string       `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string       `gorm:"not null" json:"-"`
	Provider  AuthProvider `gorm:"type:varchar(20);not null;default:'local'" json:"provider"`
	IsAdmin   bool         `gorm:"not null;default:false" json:"is_admin"`
	IsBlocked bool         `gorm:"not null;default:false" json:"is_blocked"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

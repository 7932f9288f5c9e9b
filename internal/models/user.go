// Package models contains data structures for the application's domain models.
package models

// User represents a registered account. Users are created through
// registration only and are never updated or deleted by any route.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"size:50;unique;not null" json:"email"`
	// Password holds the bcrypt hash, never the plaintext.
	Password string `gorm:"size:80;not null" json:"-"`
}

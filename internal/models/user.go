package models

import "time"

type User struct {
	ID           int64     `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Email        string    `json:"email" yaml:"email"`
	Phone        string    `json:"phone,omitempty" yaml:"phone"`
	PasswordHash string    `json:"-" yaml:"password_hash"`
	Role         string    `json:"role" yaml:"role"` // guest, host
	AvatarURL    string    `json:"avatar_url,omitempty" yaml:"avatar_url"`
	Verified     bool      `json:"verified" yaml:"verified"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// Summary strips credentials and contact details that other users
// should not see when a user is embedded in a listing or booking.
type UserSummary struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, AvatarURL: u.AvatarURL}
}

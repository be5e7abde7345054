package domain

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account created through Google OAuth login.
type User struct {
	ID                    string
	GoogleID              string
	Email                 string
	Name                  string
	ProfilePictureURL     string
	Role                  string
	EncryptedRefreshToken string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsAdmin reports whether the user may access the back office.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// PasswordHash holds a bcrypt hash; the plaintext never reaches this struct.
type User struct {
	ID           string
	Username     string
	Email        string
	Firstname    string
	Lastname     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the part of a User that may leave the server, both in
// response bodies and in the session record.
type PublicUser struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	ID        string `json:"id"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		Username:  u.Username,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		ID:        u.ID,
	}
}

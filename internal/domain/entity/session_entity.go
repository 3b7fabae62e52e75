package entity

import "time"

// Session is the server-side record addressed by the session cookie.
// A session without User is anonymous. ID is empty until the store has
// persisted the session at least once.
type Session struct {
	ID        string      `json:"id"`
	User      *PublicUser `json:"user,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (s *Session) Anonymous() bool { return s == nil || s.User == nil }

func (s *Session) Persisted() bool { return s != nil && s.ID != "" }

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

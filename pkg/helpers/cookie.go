package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookies issues and expires the HTTP-only cookie that carries the
// session identifier. The client never reads it.
type SessionCookies struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewSessionCookies(name, domain string, secure bool, sameSite http.SameSite) *SessionCookies {
	return &SessionCookies{Name: name, Domain: domain, Secure: secure, SameSite: sameSite}
}

// Read returns the session id presented by the client, if any.
func (m *SessionCookies) Read(c *gin.Context) string {
	v, err := c.Cookie(m.Name)
	if err != nil {
		return ""
	}
	return v
}

func (m *SessionCookies) Set(c *gin.Context, sessionID string, exp time.Time) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, sessionID, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *SessionCookies) Clear(c *gin.Context) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}

package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const RealIPKey = "real_ip"

// RealIP stores the client address under "real_ip", preferring
// CF-Connecting-IP, then the left-most X-Forwarded-For entry.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(RealIPKey, clientAddr(c))
		c.Next()
	}
}

func clientAddr(c *gin.Context) string {
	if ip := net.ParseIP(strings.TrimSpace(c.GetHeader("CF-Connecting-IP"))); ip != nil {
		return ip.String()
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}

package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractClientIP returns the caller IP address for the request.
//
// Forwarding headers (X-Forwarded-For, X-Real-IP) are only honoured when the
// direct peer is one of the engine's trusted proxies, see
// (*gin.Engine).SetTrustedProxies. Otherwise the connection address wins, so a
// client cannot pick its own IP by sending headers.
//
// Returns: Valid IP address string
func ExtractClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); isValidIP(ip) {
		return ip
	}

	// RemoteAddr without port (unix socket, tests)
	if ip := strings.TrimSpace(c.Request.RemoteAddr); isValidIP(ip) {
		return ip
	}

	// Ultimate fallback (should rarely happen)
	return "127.0.0.1"
}

// isValidIP validates if a string is a valid IPv4 or IPv6 address
func isValidIP(ip string) bool {
	if ip == "" {
		return false
	}

	// Parse and validate
	parsed := net.ParseIP(ip)
	return parsed != nil
}

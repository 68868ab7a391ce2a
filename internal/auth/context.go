package auth

import "github.com/gin-gonic/gin"

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserName returns the authenticated user's display name or empty string.
func GetUserName(c *gin.Context) string {
	if v, ok := c.Get("userName"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IsStaff reports whether the authenticated user carries the staff claim.
func IsStaff(c *gin.Context) bool {
	if v, ok := c.Get("isStaff"); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

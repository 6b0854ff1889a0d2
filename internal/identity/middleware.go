package identity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the numeric id of the calling user. Upstream gateways
// are trusted to have authenticated the caller before setting it.
const UserIDHeader = "X-Sharer-User-Id"

const contextKey = "callerID"

// Required is a Gin middleware that resolves the caller from the
// X-Sharer-User-Id header. Requests without a valid numeric id are rejected.
func Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing " + UserIDHeader + " header",
			})
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid " + UserIDHeader + " header",
			})
			return
		}

		c.Set(contextKey, id)
		c.Next()
	}
}

package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Refresher is the part of the subscriber gate the middleware needs.
type Refresher interface {
	MaybeRefresh(ctx context.Context)
}

// RefreshGate runs the subscriber count gate before every request it is
// mounted on. The request waits for any upstream poll the gate starts.
func RefreshGate(gate Refresher) gin.HandlerFunc {
	return func(c *gin.Context) {
		gate.MaybeRefresh(c.Request.Context())
		c.Next()
	}
}

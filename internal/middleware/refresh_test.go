package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type countingGate struct{ calls int }

func (g *countingGate) MaybeRefresh(context.Context) { g.calls++ }

func TestRefreshGate_RunsOncePerRequestBeforeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gate := &countingGate{}
	r := gin.New()
	r.Use(RefreshGate(gate))

	seen := 0
	r.GET("/", func(c *gin.Context) {
		seen = gate.calls
		c.Status(http.StatusOK)
	})

	for i := 1; i <= 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, i, gate.calls)
		require.Equal(t, i, seen)
	}
}

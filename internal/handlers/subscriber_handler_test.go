package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// stubCounts has no stored count until stored is set.
type stubCounts struct {
	stored *int64
}

func (s stubCounts) Count(_ context.Context, def int64) int64 {
	if s.stored == nil {
		return def
	}
	return *s.stored
}

func newSubscriberRouter(counts CountReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSubscriberHandler(counts, 5000)
	r := gin.New()
	r.SetHTMLTemplate(PageTemplate())
	r.GET("/", h.Page)
	r.GET("/api/subscribers", h.GetCount)
	return r
}

func getCount(t *testing.T, r *gin.Engine, target string) (int, int64) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var resp struct {
		Count int64 `json:"count"`
	}
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp.Count
}

func TestGetCount_FallsBackWhenAbsent(t *testing.T) {
	r := newSubscriberRouter(stubCounts{})

	code, count := getCount(t, r, "/api/subscribers")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int64(5000), count)

	code, count = getCount(t, r, "/api/subscribers?default=12")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int64(12), count)
}

func TestGetCount_StoredValueWins(t *testing.T) {
	n := int64(4821)
	r := newSubscriberRouter(stubCounts{stored: &n})

	code, count := getCount(t, r, "/api/subscribers?default=12")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int64(4821), count)
}

func TestGetCount_RejectsBadDefault(t *testing.T) {
	r := newSubscriberRouter(stubCounts{})

	code, _ := getCount(t, r, "/api/subscribers?default=lots")
	require.Equal(t, http.StatusBadRequest, code)
}

func TestPage_FormatsCount(t *testing.T) {
	n := int64(1234567)
	r := newSubscriberRouter(stubCounts{stored: &n})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `<span id="subscriber-count">1,234,567</span>`)
}

func TestPage_UsesDisplayDefault(t *testing.T) {
	r := newSubscriberRouter(stubCounts{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "5,000")
}

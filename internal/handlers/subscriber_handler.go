package handlers

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

// CountReader returns the cached subscriber count or the given fallback.
type CountReader interface {
	Count(ctx context.Context, def int64) int64
}

type SubscriberHandler struct {
	counts         CountReader
	defaultDisplay int64
}

func NewSubscriberHandler(counts CountReader, defaultDisplay int64) *SubscriberHandler {
	return &SubscriberHandler{counts: counts, defaultDisplay: defaultDisplay}
}

// GetCount handles GET /api/subscribers
// Optional query param: default, returned while no count has been stored.
func (h *SubscriberHandler) GetCount(c *gin.Context) {
	def := h.defaultDisplay
	if raw := c.Query("default"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "default must be an integer",
			})
			return
		}
		def = n
	}

	c.JSON(http.StatusOK, gin.H{
		"count": h.counts.Count(c.Request.Context(), def),
	})
}

// Page handles GET /
func (h *SubscriberHandler) Page(c *gin.Context) {
	count := h.counts.Count(c.Request.Context(), h.defaultDisplay)
	c.HTML(http.StatusOK, PageTemplateName, gin.H{
		"Count": humanize.Comma(count),
	})
}

const PageTemplateName = "index"

// PageTemplate renders the public page with the formatted count.
func PageTemplate() *template.Template {
	return template.Must(template.New(PageTemplateName).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Subscribers</title></head>
<body>
<p>Join <span id="subscriber-count">{{.Count}}</span> subscribers.</p>
</body>
</html>
`))
}

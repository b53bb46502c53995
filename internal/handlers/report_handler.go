package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/tienda-ropa/internal/pipelines"
)

type reportSummary struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ListReports returns the names and titles of the available reports.
func (h *Handler) ListReports(c *gin.Context) {
	catalog := pipelines.Catalog()
	out := make([]reportSummary, 0, len(catalog))
	for _, r := range catalog {
		out = append(out, reportSummary{Name: r.Name, Title: r.Title})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetReport runs one report. quantity-by-date takes ?date=YYYY-MM-DD and
// top-brands takes ?limit=1..5.
func (h *Handler) GetReport(c *gin.Context) {
	var params pipelines.Params
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, use YYYY-MM-DD"})
			return
		}
		params.Date = date
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		params.Limit = limit
	}

	report, err := pipelines.ByName(c.Param("name"), params)
	switch {
	case errors.Is(err, pipelines.ErrUnknownReport):
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	case errors.Is(err, pipelines.ErrInvalidLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	key := cacheKey(report.Name, params)
	if payload, ok := h.cached(c, key); ok {
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	rows, err := h.Reports.Run(c.Request.Context(), report)
	if err != nil {
		h.Log.Error("report failed", "report", report.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run report"})
		return
	}

	payload, err := json.Marshal(gin.H{"report": report.Name, "title": report.Title, "data": rows})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode report"})
		return
	}
	h.remember(c, key, payload)

	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Healthz reports whether MongoDB answers a ping.
func (h *Handler) Healthz(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func cacheKey(name string, p pipelines.Params) string {
	key := name
	if !p.Date.IsZero() {
		key += ":" + p.Date.Format("2006-01-02")
	}
	if p.Limit != 0 {
		key += fmt.Sprintf(":%d", p.Limit)
	}
	return key
}

func (h *Handler) cached(c *gin.Context, key string) ([]byte, bool) {
	if h.Cache == nil {
		return nil, false
	}
	payload, ok, err := h.Cache.Get(c.Request.Context(), key)
	if err != nil {
		h.Log.Warn("report cache read failed", "key", key, "error", err)
		return nil, false
	}
	return payload, ok
}

func (h *Handler) remember(c *gin.Context, key string, payload []byte) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Set(c.Request.Context(), key, payload); err != nil {
		h.Log.Warn("report cache write failed", "key", key, "error", err)
	}
}

// Package http exposes the harmonic engine, extrema cache, and
// station provider over a thin read-only Gin API: a caller of the
// core, not part of it.
package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tidewatch/tidecore/internal/cache"
	"github.com/tidewatch/tidecore/internal/domain"
	"github.com/tidewatch/tidecore/internal/usecase"
)

// Handler serves tide queries backed by a TideUseCase and ExtremaCache.
type Handler struct {
	tideUC *usecase.TideUseCase
	cache  *cache.ExtremaCache
	log    zerolog.Logger
}

// NewHandler builds a Handler.
func NewHandler(tideUC *usecase.TideUseCase, extremaCache *cache.ExtremaCache, log zerolog.Logger) *Handler {
	return &Handler{tideUC: tideUC, cache: extremaCache, log: log}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// constituentInfo is the wire shape for one catalog entry.
type constituentInfo struct {
	Name          string `json:"name"`
	SpeedDegPerHr float64 `json:"speed_deg_per_hr"`
	Class         string `json:"class"`
}

// GetConstituents handles GET /v1/constituents.
func (h *Handler) GetConstituents(c *gin.Context) {
	constituents := h.tideUC.Constituents()

	response := make([]constituentInfo, len(constituents))
	for i, con := range constituents {
		response[i] = constituentInfo{
			Name:          con.Name,
			SpeedDegPerHr: con.SpeedDegPerHr,
			Class:         con.Class.String(),
		}
	}

	c.JSON(http.StatusOK, gin.H{"constituents": response, "count": len(response)})
}

// GetHeight handles GET /v1/stations/:id/height?t=RFC3339.
func (h *Handler) GetHeight(c *gin.Context) {
	stationID := c.Param("id")

	t, err := parseTimeParam(c, "t", time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	th, err := h.tideUC.TideHeight(stationID, t)
	if h.handleDomainError(c, stationID, err) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"time":      th.Time.UTC().Format(time.RFC3339),
		"height":    th.Height,
		"rate":      th.Rate,
		"direction": th.Direction.String(),
	})
}

// GetExtrema handles GET /v1/stations/:id/extrema?start=...&end=....
// Always served from the extrema cache: only extrema inside the
// cache's rolling window (starting at today's UTC midnight) are
// returned, and parts of [start,end] outside that window yield no
// entries.
func (h *Handler) GetExtrema(c *gin.Context) {
	stationID := c.Param("id")
	now := time.Now().UTC()

	start, err := parseTimeParam(c, "start", now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseTimeParam(c, "end", now.Add(24*time.Hour))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	extrema, err := h.cache.InRange(stationID, start, end, now)
	if err != nil {
		if h.handleDomainError(c, stationID, err) {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"extrema": toExtremaResponse(extrema)})
}

// GetCurve handles GET /v1/stations/:id/curve?start=...&end=...&step=minutes.
func (h *Handler) GetCurve(c *gin.Context) {
	stationID := c.Param("id")
	now := time.Now().UTC()

	start, err := parseTimeParam(c, "start", now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseTimeParam(c, "end", now.Add(time.Hour))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stepStr := c.DefaultQuery("step", "10")
	stepMin, err := strconv.Atoi(stepStr)
	if err != nil || stepMin <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "step must be a positive integer number of minutes"})
		return
	}

	samples, err := h.tideUC.Curve(stationID, start, end, time.Duration(stepMin)*time.Minute)
	if h.handleDomainError(c, stationID, err) {
		return
	}

	points := make([]gin.H, len(samples))
	for i, s := range samples {
		points[i] = gin.H{
			"time":      s.Time.UTC().Format(time.RFC3339),
			"height":    s.Height,
			"rate":      s.Rate,
			"direction": s.Direction.String(),
		}
	}

	c.JSON(http.StatusOK, gin.H{"samples": points})
}

func toExtremaResponse(extrema []domain.TideExtremum) []gin.H {
	out := make([]gin.H, len(extrema))
	for i, e := range extrema {
		out[i] = gin.H{
			"time":   e.Time.UTC().Format(time.RFC3339),
			"height": e.Height,
			"type":   e.Type.String(),
		}
	}
	return out
}

func parseTimeParam(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s (expected RFC3339): %w", name, err)
	}
	return t.UTC(), nil
}

// handleDomainError maps the two surfaced error kinds to HTTP status
// codes per spec section 6; it writes a response and returns true iff
// err was non-nil and handled.
func (h *Handler) handleDomainError(c *gin.Context, stationID string, err error) bool {
	if err == nil {
		return false
	}

	var unknown *domain.UnknownStationError
	var empty *domain.EmptyConstantsError

	switch {
	case errors.As(err, &unknown):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &empty):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("station_id", stationID).Msg("tide query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
	return true
}

// Package cache amortizes extrema search across many same-day queries
// by precomputing a rolling N-day window per station, guarded by a
// single mutex and single-flighted per (station, day) pair.
package cache

import (
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/tidewatch/tidecore/internal/domain"
)

// DefaultWindowDays is the rolling window size used when no override
// is supplied to NewExtremaCache.
const DefaultWindowDays = 7

// DefaultCapacity bounds the number of resident per-station entries.
const DefaultCapacity = 512

// ExtremaSource computes extrema over an interval; satisfied by
// *usecase.TideUseCase. Kept as a narrow interface so the cache does
// not depend on the full orchestration package.
type ExtremaSource interface {
	Extrema(stationID string, t0, t1 time.Time) ([]domain.TideExtremum, error)
}

type entry struct {
	extrema     []domain.TideExtremum
	createdDate string // UTC calendar date, YYYY-MM-DD
	windowStart time.Time
	windowEnd   time.Time
}

func (e *entry) valid(now time.Time) bool {
	return e.createdDate == calendarDate(now)
}

func calendarDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func startOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ExtremaCache is a per-station rolling-window cache of extrema,
// single-flighted per (station, creation-day) pair. The zero value is
// not usable; construct with NewExtremaCache.
type ExtremaCache struct {
	mu         sync.Mutex
	entries    *lru.Cache[string, *entry]
	group      singleflight.Group
	source     ExtremaSource
	windowDays int
}

// Option configures an ExtremaCache at construction.
type Option func(*ExtremaCache)

// WithWindowDays overrides the default 7-day rolling window.
func WithWindowDays(days int) Option {
	return func(c *ExtremaCache) { c.windowDays = days }
}

// WithCapacity overrides the default LRU capacity.
func WithCapacity(capacity int) Option {
	return func(c *ExtremaCache) {
		entries, err := lru.New[string, *entry](capacity)
		if err == nil {
			c.entries = entries
		}
	}
}

// NewExtremaCache builds an ExtremaCache backed by source.
func NewExtremaCache(source ExtremaSource, opts ...Option) *ExtremaCache {
	entries, _ := lru.New[string, *entry](DefaultCapacity)
	c := &ExtremaCache{
		entries:    entries,
		source:     source,
		windowDays: DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// entryFor returns a valid entry for stationID as of now, computing
// and publishing one via a single flight if missing or stale. The
// expensive computation runs inside a singleflight call keyed by
// station and UTC date, with mu released; mu guards only the LRU
// lookups and the publication. Concurrent callers either see a
// published valid entry or join the same in-flight call, which
// re-checks the LRU before computing.
func (c *ExtremaCache) entryFor(stationID string, now time.Time) (*entry, error) {
	c.mu.Lock()
	if e, ok := c.entries.Get(stationID); ok && e.valid(now) {
		c.mu.Unlock()
		return e, nil
	}
	c.mu.Unlock()

	key := stationID + "|" + calendarDate(now)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.Lock()
		if e, ok := c.entries.Get(stationID); ok && e.valid(now) {
			c.mu.Unlock()
			return e, nil
		}
		c.mu.Unlock()

		windowStart := startOfDayUTC(now)
		windowEnd := windowStart.Add(time.Duration(c.windowDays) * 24 * time.Hour)

		extrema, err := c.source.Extrema(stationID, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}

		e := &entry{
			extrema:     extrema,
			createdDate: calendarDate(now),
			windowStart: windowStart,
			windowEnd:   windowEnd,
		}

		c.mu.Lock()
		c.entries.Add(stationID, e)
		c.mu.Unlock()

		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry), nil
}

// NextHigh returns the first cached high strictly after t, or nil if
// none exists within the cached window.
func (c *ExtremaCache) NextHigh(stationID string, t time.Time) (*domain.TideExtremum, error) {
	return c.nextOfType(stationID, t, domain.High)
}

// NextLow returns the first cached low strictly after t, or nil if
// none exists within the cached window.
func (c *ExtremaCache) NextLow(stationID string, t time.Time) (*domain.TideExtremum, error) {
	return c.nextOfType(stationID, t, domain.Low)
}

func (c *ExtremaCache) nextOfType(stationID string, t time.Time, want domain.ExtremumType) (*domain.TideExtremum, error) {
	e, err := c.entryFor(stationID, t)
	if err != nil {
		return nil, err
	}
	for _, ext := range e.extrema {
		if ext.Type == want && ext.Time.After(t) {
			ext := ext
			return &ext, nil
		}
	}
	return nil, nil
}

// AllExtrema returns the full cached window for stationID, sorted
// ascending by time.
func (c *ExtremaCache) AllExtrema(stationID string, now time.Time) ([]domain.TideExtremum, error) {
	e, err := c.entryFor(stationID, now)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TideExtremum, len(e.extrema))
	copy(out, e.extrema)
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// InRange returns cached extrema with t0 <= time <= t1 (inclusive);
// empty if t1 < t0.
func (c *ExtremaCache) InRange(stationID string, t0, t1, now time.Time) ([]domain.TideExtremum, error) {
	if t1.Before(t0) {
		return []domain.TideExtremum{}, nil
	}
	e, err := c.entryFor(stationID, now)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TideExtremum, 0)
	for _, ext := range e.extrema {
		if !ext.Time.Before(t0) && !ext.Time.After(t1) {
			out = append(out, ext)
		}
	}
	return out, nil
}

// Prewarm ensures a valid entry exists for stationID as of now.
func (c *ExtremaCache) Prewarm(stationID string, now time.Time) error {
	_, err := c.entryFor(stationID, now)
	return err
}

// Invalidate drops the cached entry for stationID, if any.
func (c *ExtremaCache) Invalidate(stationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(stationID)
}

// InvalidateAll drops every cached entry.
func (c *ExtremaCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

// InvalidateExpired drops only entries whose creation date is not
// today (UTC).
func (c *ExtremaCache) InvalidateExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	today := calendarDate(now)
	for _, stationID := range c.entries.Keys() {
		e, ok := c.entries.Peek(stationID)
		if ok && e.createdDate != today {
			c.entries.Remove(stationID)
		}
	}
}

// Stats is a per-station snapshot of cache contents.
type Stats struct {
	StationID     string
	ExtremaCount  int
	WindowStart   time.Time
	WindowEnd     time.Time
	Valid         bool
}

// StatsFor returns a snapshot for stationID, taken under the same
// lock that guards cache mutation, per spec section 5. The second
// return is false if no entry is cached for stationID.
func (c *ExtremaCache) StatsFor(stationID string, now time.Time) (Stats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Peek(stationID)
	if !ok {
		return Stats{}, false
	}
	return Stats{
		StationID:    stationID,
		ExtremaCount: len(e.extrema),
		WindowStart:  e.windowStart,
		WindowEnd:    e.windowEnd,
		Valid:        e.valid(now),
	}, true
}

// Stats returns a snapshot for every currently resident station,
// taken under the same lock that guards cache mutation.
func (c *ExtremaCache) Stats(now time.Time) []Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := c.entries.Keys()
	out := make([]Stats, 0, len(keys))
	for _, stationID := range keys {
		e, ok := c.entries.Peek(stationID)
		if !ok {
			continue
		}
		out = append(out, Stats{
			StationID:    stationID,
			ExtremaCount: len(e.extrema),
			WindowStart:  e.windowStart,
			WindowEnd:    e.windowEnd,
			Valid:        e.valid(now),
		})
	}
	return out
}

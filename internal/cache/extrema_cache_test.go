package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/tidecore/internal/domain"
)

// countingSource is a fake ExtremaSource that counts how many times
// Extrema was actually invoked, for asserting single-flight behavior,
// and can inject an artificial delay to widen the race window.
type countingSource struct {
	calls atomic.Int64
	delay time.Duration
}

func (s *countingSource) Extrema(stationID string, t0, t1 time.Time) ([]domain.TideExtremum, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	base := t0.Add(6 * time.Hour)
	return []domain.TideExtremum{
		{Time: base, Height: 5.0, Type: domain.High},
		{Time: base.Add(6 * time.Hour), Height: -1.0, Type: domain.Low},
		{Time: base.Add(12 * time.Hour), Height: 5.2, Type: domain.High},
	}, nil
}

func TestExtremaCache_NextHighAndNextLow(t *testing.T) {
	source := &countingSource{}
	c := NewExtremaCache(source)
	now := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	high, err := c.NextHigh("9414290", now)
	require.NoError(t, err)
	require.NotNil(t, high)
	assert.Equal(t, domain.High, high.Type)

	low, err := c.NextLow("9414290", now)
	require.NoError(t, err)
	require.NotNil(t, low)
	assert.Equal(t, domain.Low, low.Type)

	assert.True(t, high.Time.Before(low.Time))
}

func TestExtremaCache_NextHigh_NilPastWindow(t *testing.T) {
	source := &countingSource{}
	c := NewExtremaCache(source)
	now := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	// Past the last synthesized extremum (base+12h).
	late := now.Add(20 * time.Hour)
	high, err := c.NextHigh("9414290", late)
	require.NoError(t, err)
	assert.Nil(t, high)
}

func TestExtremaCache_InRangeInclusiveBoundaries(t *testing.T) {
	source := &countingSource{}
	c := NewExtremaCache(source)
	now := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	all, err := c.AllExtrema("9414290", now)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	first := all[0]
	inRange, err := c.InRange("9414290", first.Time, first.Time.Add(6*time.Hour), now)
	require.NoError(t, err)
	assert.Contains(t, inRange, first)
}

func TestExtremaCache_InRangeEmptyWhenInverted(t *testing.T) {
	source := &countingSource{}
	c := NewExtremaCache(source)
	now := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	out, err := c.InRange("9414290", now.Add(time.Hour), now, now)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExtremaCache_SingleFlightPerStationPerDay(t *testing.T) {
	source := &countingSource{delay: 20 * time.Millisecond}
	c := NewExtremaCache(source)
	now := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	const goroutines = 20
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, err := c.AllExtrema("9414290", now)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), source.calls.Load(), "expected exactly one underlying extrema-search pass")
}

func TestExtremaCache_InvalidateExpired(t *testing.T) {
	source := &countingSource{}
	c := NewExtremaCache(source)
	day1 := time.Date(2026, 2, 12, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 2, 13, 1, 0, 0, 0, time.UTC)

	_, err := c.AllExtrema("9414290", day1)
	require.NoError(t, err)

	stats, ok := c.StatsFor("9414290", day1)
	require.True(t, ok)
	assert.True(t, stats.Valid)

	c.InvalidateExpired(day2)

	_, ok = c.StatsFor("9414290", day2)
	assert.False(t, ok, "expected stale entry to be dropped by InvalidateExpired")
}

func TestExtremaCache_InvalidateAll(t *testing.T) {
	source := &countingSource{}
	c := NewExtremaCache(source)
	now := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	_, err := c.AllExtrema("A", now)
	require.NoError(t, err)
	_, err = c.AllExtrema("B", now)
	require.NoError(t, err)

	c.InvalidateAll()

	_, ok := c.StatsFor("A", now)
	assert.False(t, ok)
	_, ok = c.StatsFor("B", now)
	assert.False(t, ok)
}

func TestExtremaCache_Prewarm(t *testing.T) {
	source := &countingSource{}
	c := NewExtremaCache(source)
	now := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.Prewarm("9414290", now))

	stats, ok := c.StatsFor("9414290", now)
	require.True(t, ok)
	assert.True(t, stats.Valid)
	assert.Equal(t, int64(1), source.calls.Load())

	// A second prewarm on the same day should not recompute.
	require.NoError(t, c.Prewarm("9414290", now))
	assert.Equal(t, int64(1), source.calls.Load())
}

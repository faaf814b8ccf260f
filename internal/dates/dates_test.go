package dates

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayFirst(t *testing.T) {
	tests := []struct {
		in                        string
		wantDay, wantMonth, wantYear int
	}{
		{"01/01/2026", 1, 1, 2026},
		{"3/4/2026", 3, 4, 2026},
		{"31/12/99", 31, 12, 2099},
		{"15/06/26", 15, 6, 2026},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		require.True(t, ok, "input %q", tt.in)
		assert.Equal(t, tt.wantDay, got.Day(), "day of %q", tt.in)
		assert.Equal(t, time.Month(tt.wantMonth), got.Month(), "month of %q", tt.in)
		assert.Equal(t, tt.wantYear, got.Year(), "year of %q", tt.in)
	}
}

func TestParseDayFirstRoundTrip(t *testing.T) {
	// Any (day, month, year) formatted as dd/mm/yyyy must parse back to the
	// same calendar day.
	days := []struct{ d, m, y int }{
		{1, 1, 2024}, {29, 2, 2024}, {31, 7, 2025}, {9, 11, 2026},
	}
	for _, c := range days {
		s := fmt.Sprintf("%02d/%02d/%04d", c.d, c.m, c.y)
		got, ok := Parse(s)
		require.True(t, ok, s)
		assert.Equal(t, c.d, got.Day())
		assert.Equal(t, time.Month(c.m), got.Month())
		assert.Equal(t, c.y, got.Year())
	}
}

func TestParseRejectsImpossibleDayFirst(t *testing.T) {
	for _, s := range []string{"31/02/2026", "0/01/2026", "01/13/2026"} {
		_, ok := Parse(s)
		assert.False(t, ok, s)
	}
}

func TestParseEpochs(t *testing.T) {
	ref := time.Date(2026, time.January, 15, 10, 30, 0, 0, time.UTC)

	// Seconds are scaled to millis.
	got, ok := Parse(float64(ref.Unix()))
	require.True(t, ok)
	assert.Equal(t, ref.Unix(), got.Unix())

	// Millis pass through.
	got, ok = Parse(float64(ref.UnixMilli()))
	require.True(t, ok)
	assert.Equal(t, ref.UnixMilli(), got.UnixMilli())

	// Numeric strings behave like numbers.
	got, ok = Parse(fmt.Sprintf("%d", ref.Unix()))
	require.True(t, ok)
	assert.Equal(t, ref.Unix(), got.Unix())
}

func TestParseGenericAndJunk(t *testing.T) {
	got, ok := Parse("2026-02-01T00:00:00Z")
	require.True(t, ok)
	assert.Equal(t, 2026, got.Year())

	got, ok = Parse("2026-02-01")
	require.True(t, ok)
	assert.Equal(t, time.February, got.Month())

	for _, junk := range []any{"", "-", "soon", nil, float64(0), "tba"} {
		_, ok := Parse(junk)
		assert.False(t, ok, "input %v", junk)
	}
}

func TestTransformsArePure(t *testing.T) {
	base := time.Date(2026, time.March, 15, 13, 45, 0, 0, time.UTC)
	orig := base

	assert.Equal(t, time.Date(2026, time.March, 20, 13, 45, 0, 0, time.UTC), AddDays(base, 5))
	assert.Equal(t, time.Date(2026, time.May, 15, 13, 45, 0, 0, time.UTC), AddMonths(base, 2))
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), StartOfDay(base))
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(base))
	assert.Equal(t, orig, base)
}

func TestMonthBuckets(t *testing.T) {
	anchor := time.Date(2025, time.December, 20, 9, 0, 0, 0, time.UTC)
	buckets := MonthBuckets(anchor, 1, 8)
	require.Len(t, buckets, 8)

	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), buckets[0].Start)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), buckets[0].End)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), buckets[7].End)

	// A date lands in exactly one bucket; boundaries belong to the later one.
	feb1 := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, BucketIndex(buckets, feb1))
	assert.Equal(t, 0, BucketIndex(buckets, feb1.Add(-time.Second)))

	// Outside the horizon is dropped.
	assert.Equal(t, -1, BucketIndex(buckets, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, BucketIndex(buckets, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)))
}

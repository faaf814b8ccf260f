// Package dates folds the date representations found across the upstream
// streams (ISO strings, day-first dd/mm/yyyy, epoch seconds or millis) into
// plain time values, and provides the month-bucket helpers the planner uses
// for arrival forecasting.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Epoch values below this magnitude are seconds, not milliseconds.
const epochMillisThreshold = 1e12

// dayFirst matches dd/mm/yyyy with a 2 to 4 digit year. The region this
// system serves writes day-first, so 03/04/2026 is the 3rd of April.
var dayFirst = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)

var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// Parse turns a raw stream value into a time. The second return is false for
// anything unusable; callers drop the record from time-windowed aggregates
// only, never the whole pass.
func Parse(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case float64:
		return fromEpoch(v)
	case int64:
		return fromEpoch(float64(v))
	case int:
		return fromEpoch(float64(v))
	case string:
		return parseString(v)
	}
	return time.Time{}, false
}

func fromEpoch(v float64) (time.Time, bool) {
	if v <= 0 {
		return time.Time{}, false
	}
	millis := int64(v)
	if v < epochMillisThreshold {
		millis = int64(v * 1000)
	}
	return time.UnixMilli(millis), true
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return time.Time{}, false
	}

	// Bare numerics are epochs recorded as text.
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(n)
	}

	if m := dayFirst.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		// Reject rollovers like 31/02.
		if t.Day() != day || t.Month() != time.Month(month) {
			return time.Time{}, false
		}
		return t, true
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths returns t shifted by n calendar months.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth truncates t to the first of its month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Bucket is one half-open [Start, End) month window.
type Bucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// MonthBuckets produces n consecutive month windows anchored at anchor's
// month shifted by offsetMonths. offsetMonths of 1 starts at the next
// calendar month.
func MonthBuckets(anchor time.Time, offsetMonths, n int) []Bucket {
	buckets := make([]Bucket, 0, n)
	start := AddMonths(StartOfMonth(anchor), offsetMonths)
	for i := 0; i < n; i++ {
		end := AddMonths(start, 1)
		buckets = append(buckets, Bucket{Start: start, End: end})
		start = end
	}
	return buckets
}

// BucketIndex returns the index of the first bucket containing t, or -1 when
// t falls outside the whole horizon.
func BucketIndex(buckets []Bucket, t time.Time) int {
	for i, b := range buckets {
		if b.Contains(t) {
			return i
		}
	}
	return -1
}

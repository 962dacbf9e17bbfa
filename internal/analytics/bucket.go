package analytics

import (
	"sort"
	"time"

	"github.com/lakmal/heveatrack/internal/models"
)

// Granularity selects the calendar unit observations are grouped into.
type Granularity int

const (
	Day Granularity = iota
	Month
)

// Observation is a dated value fed into the bucketing utility.
type Observation struct {
	Date  time.Time
	Value float64
}

// Bucket holds all values that fall into one calendar unit. Values keep input
// order so latest-value or percentile extraction stays deterministic.
type Bucket struct {
	Key    string // "2006-01-02" for Day, "2006-01" for Month
	Values []float64
}

func (b Bucket) Count() int { return len(b.Values) }

func (b Bucket) Sum() float64 {
	var sum float64
	for _, v := range b.Values {
		sum += v
	}
	return sum
}

// Mean is sum/count. Callers never see a zero-count bucket: BucketBy only
// emits units with at least one observation.
func (b Bucket) Mean() float64 {
	if len(b.Values) == 0 {
		return 0
	}
	return b.Sum() / float64(len(b.Values))
}

// BucketKey derives the calendar-unit key for a date at the given granularity.
// Keys always use the UTC calendar so the same input buckets identically
// everywhere.
func BucketKey(t time.Time, g Granularity) string {
	d := models.DateOnly(t)
	if g == Month {
		return d.Format("2006-01")
	}
	return d.Format("2006-01-02")
}

// BucketBy groups observations into calendar-unit buckets, sorted ascending by
// unit start regardless of input order. Units with no observations are not
// synthesized; a day with no tapping is absent, not zero.
func BucketBy(obs []Observation, g Granularity) []Bucket {
	byKey := make(map[string]*Bucket)
	for _, o := range obs {
		key := BucketKey(o.Date, g)
		b, ok := byKey[key]
		if !ok {
			b = &Bucket{Key: key}
			byKey[key] = b
		}
		b.Values = append(b.Values, o.Value)
	}

	buckets := make([]Bucket, 0, len(byKey))
	for _, b := range byKey {
		buckets = append(buckets, *b)
	}
	// ISO keys sort chronologically as strings.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets
}

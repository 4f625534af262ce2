package calendar

import "time"

// Bucket is a [Start, End) calendar interval. Buckets of one sequence are contiguous and oldest first.
type Bucket struct {
	Start time.Time
	End   time.Time
	Label string
}

func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// GenerateBuckets builds the bucket skeleton for r, in now's location.
//
//	1w         7 daily buckets ending at the midnight after today
//	1m, 3m, 6m 5, 12, 26 weekly buckets, the last one being the current ISO week
//	1y         12 monthly buckets, the last one being the current month
//
// Calendar days are used throughout, so around a DST switch a daily bucket spans 23h or 25h.
// Every bucket starts at the first instant of its calendar day, which is midnight unless DST skipped it.
func GenerateBuckets(r Range, now time.Time) []Bucket {
	w := windowFor(r, now)

	buckets := make([]Bucket, 0, w.count)
	for i := 0; i < w.count; i++ {
		start := w.boundary(i)
		buckets = append(buckets, Bucket{
			Start: start,
			End:   w.boundary(i + 1),
			Label: w.label(start),
		})
	}
	return buckets
}

// Find returns the index of the first bucket containing t, or -1.
// This is a linear scan, so folding n records costs O(n * len(buckets)); fine for personal-scale history.
func Find(buckets []Bucket, t time.Time) int {
	for i, b := range buckets {
		if b.Contains(t) {
			return i
		}
	}
	return -1
}

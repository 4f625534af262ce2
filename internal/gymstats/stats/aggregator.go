// Package stats folds a user's workouts into bucketed series and histograms.
//
// The fold functions in this file are pure: the same buckets and records always
// produce the same output. Fetching and the clock live in Service.
package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/2beens/fitstats/internal/gymstats/calendar"
	"github.com/2beens/fitstats/internal/gymstats/workouts"
)

const dateLayout = "2006-01-02"

var weekdayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type HoursPoint struct {
	Label string  `json:"label"`
	Hours float64 `json:"hours"`
}

type CountPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Histogram labels and values are index-aligned.
type Histogram struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type Progression struct {
	Dates   []string  `json:"dates"`
	Weights []float64 `json:"weights"`
}

type HeatmapDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Summary struct {
	Workouts          int     `json:"workouts"`
	CompletedWorkouts int     `json:"completed_workouts"`
	TotalHours        float64 `json:"total_hours"`
	TotalVolume       float64 `json:"total_volume"`
	TotalSets         int     `json:"total_sets"`
}

// DurationPerBucket sums the hours of finished workouts into the bucket their start falls in.
// Unfinished workouts and workouts outside every bucket are skipped.
func DurationPerBucket(buckets []calendar.Bucket, ws []workouts.Workout) []HoursPoint {
	points := make([]HoursPoint, len(buckets))
	for i, b := range buckets {
		points[i].Label = b.Label
	}

	for i := range ws {
		hours, ok := ws[i].Hours()
		if !ok {
			continue
		}
		if idx := calendar.Find(buckets, ws[i].StartTime); idx >= 0 {
			points[idx].Hours += hours
		}
	}
	return points
}

// FrequencyPerBucket counts workouts per bucket by start time.
func FrequencyPerBucket(buckets []calendar.Bucket, ws []workouts.Workout) []CountPoint {
	points := make([]CountPoint, len(buckets))
	for i, b := range buckets {
		points[i].Label = b.Label
	}

	for _, w := range ws {
		if w.StartTime.IsZero() {
			continue
		}
		if idx := calendar.Find(buckets, w.StartTime); idx >= 0 {
			points[idx].Count++
		}
	}
	return points
}

// MuscleGroupDistribution counts every exercise performed by its primary muscle group.
// Labels appear in first-seen order and groups never seen are left out.
// Exercises missing from groups are skipped.
func MuscleGroupDistribution(ws []workouts.Workout, groups map[int]string) Histogram {
	counter := newOrderedCounter()
	for _, w := range ws {
		for _, we := range w.Exercises {
			group, ok := groups[we.ExerciseID]
			if !ok || group == "" {
				continue
			}
			counter.inc(group)
		}
	}
	return counter.histogram()
}

// WeekdayDistribution counts workouts per weekday of their start, Monday first.
// All seven weekdays are always present.
func WeekdayDistribution(ws []workouts.Workout) Histogram {
	values := make([]int, len(weekdayLabels))
	for _, w := range ws {
		if w.StartTime.IsZero() {
			continue
		}
		values[(int(w.StartTime.Weekday())+6)%7]++
	}
	return Histogram{
		Labels: slices.Clone(weekdayLabels),
		Values: values,
	}
}

// ExerciseProgression takes the heaviest set of each entry and orders the points by workout start.
// Entries without any positive weight are dropped.
func ExerciseProgression(entries []workouts.ExerciseEntry) Progression {
	type point struct {
		at     time.Time
		weight float64
	}

	points := make([]point, 0, len(entries))
	for _, e := range entries {
		var maxWeight float64
		for _, s := range e.Sets {
			maxWeight = max(maxWeight, s.Weight())
		}
		if maxWeight <= 0 {
			continue
		}
		points = append(points, point{at: e.WorkoutStart, weight: maxWeight})
	}

	slices.SortStableFunc(points, func(a, b point) int {
		return a.at.Compare(b.at)
	})

	progression := Progression{
		Dates:   make([]string, 0, len(points)),
		Weights: make([]float64, 0, len(points)),
	}
	for _, p := range points {
		progression.Dates = append(progression.Dates, p.at.Format(dateLayout))
		progression.Weights = append(progression.Weights, p.weight)
	}
	return progression
}

// Heatmap counts workouts per calendar day of their start, oldest day first.
// Days without workouts are not listed.
func Heatmap(ws []workouts.Workout) []HeatmapDay {
	counter := newOrderedCounter()
	for _, w := range ws {
		if w.StartTime.IsZero() {
			continue
		}
		counter.inc(w.StartTime.Format(dateLayout))
	}

	days := make([]HeatmapDay, 0, len(counter.labels))
	for i, date := range counter.labels {
		days = append(days, HeatmapDay{Date: date, Count: counter.values[i]})
	}
	// YYYY-MM-DD sorts lexically
	slices.SortFunc(days, func(a, b HeatmapDay) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return days
}

func Summarize(ws []workouts.Workout) Summary {
	var s Summary
	for i := range ws {
		s.Workouts++
		if hours, ok := ws[i].Hours(); ok {
			s.CompletedWorkouts++
			s.TotalHours += hours
		}
		s.TotalVolume += workouts.TotalVolume(ws[i].Exercises)
		for _, we := range ws[i].Exercises {
			s.TotalSets += len(we.Sets)
		}
	}
	return s
}

// orderedCounter counts keys and remembers the order they were first seen in.
type orderedCounter struct {
	index  map[string]int
	labels []string
	values []int
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{index: make(map[string]int)}
}

func (c *orderedCounter) inc(key string) {
	i, ok := c.index[key]
	if !ok {
		i = len(c.labels)
		c.index[key] = i
		c.labels = append(c.labels, key)
		c.values = append(c.values, 0)
	}
	c.values[i]++
}

func (c *orderedCounter) histogram() Histogram {
	return Histogram{
		Labels: append(make([]string, 0, len(c.labels)), c.labels...),
		Values: append(make([]int, 0, len(c.values)), c.values...),
	}
}

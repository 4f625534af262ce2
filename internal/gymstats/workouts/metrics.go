package workouts

import (
	"fmt"
	"time"
)

// Duration renders the elapsed time between start and end in whole minutes, e.g. "1h 30m" or "45m".
// It is empty when either bound is missing. An end before the start renders as "0m".
func Duration(start, end *time.Time) string {
	if start == nil || end == nil {
		return ""
	}

	minutes := int(end.Sub(*start) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	hours, minutes := minutes/60, minutes%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// TotalVolume sums weight x reps over every set of every exercise.
func TotalVolume(exercises []WorkoutExercise) float64 {
	var volume float64
	for _, we := range exercises {
		for _, s := range we.Sets {
			volume += s.Weight() * float64(s.RepCount())
		}
	}
	return volume
}

func (s Set) Weight() float64 {
	if s.WeightKg == nil {
		return 0
	}
	return *s.WeightKg
}

func (s Set) RepCount() int {
	if s.Reps == nil {
		return 0
	}
	return *s.Reps
}

// Hours is the elapsed time of a finished workout. ok is false while the workout has no end.
// Like Duration, a negative span is clamped to zero.
func (w *Workout) Hours() (hours float64, ok bool) {
	if w.EndTime == nil {
		return 0, false
	}
	elapsed := w.EndTime.Sub(w.StartTime)
	if elapsed < 0 {
		return 0, true
	}
	return elapsed.Hours(), true
}

// Enrich fills in the derived fields shown by list and detail views.
func (w *Workout) Enrich() {
	w.Duration = Duration(&w.StartTime, w.EndTime)
	w.TotalVolume = TotalVolume(w.Exercises)
}

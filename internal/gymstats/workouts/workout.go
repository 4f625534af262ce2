package workouts

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitstats/internal/gymstats/exercises"
)

const DefaultSetType = "normal"

type Workout struct {
	ID          int               `json:"id"`
	UserID      int               `json:"user_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     *time.Time        `json:"end_time"`
	Exercises   []WorkoutExercise `json:"workout_exercises"`

	// derived on read, never stored
	Duration    string  `json:"duration"`
	TotalVolume float64 `json:"total_volume"`
}

type WorkoutExercise struct {
	ID         int                 `json:"id"`
	WorkoutID  int                 `json:"workout_id"`
	ExerciseID int                 `json:"exercise_id"`
	Notes      string              `json:"notes"`
	Sets       []Set               `json:"sets"`
	Exercise   *exercises.Exercise `json:"exercise,omitempty"`
}

// Set weight and reps are optional, a missing value counts as 0.
type Set struct {
	Index    int      `json:"set_index"`
	Type     string   `json:"set_type"`
	WeightKg *float64 `json:"weight_kg"`
	Reps     *int     `json:"reps"`
}

// ExerciseEntry is one performance of an exercise together with the start of its workout.
type ExerciseEntry struct {
	WorkoutExerciseID int
	WorkoutStart      time.Time
	Sets              []Set
}

func (w *Workout) Validate() error {
	if w.Title == "" {
		return errors.New("missing required field: title")
	}
	if w.StartTime.IsZero() {
		return errors.New("missing required field: start_time")
	}
	for i, we := range w.Exercises {
		if we.ExerciseID <= 0 {
			return fmt.Errorf("exercise %d: missing required field: exercise_id", i)
		}
		for j, s := range we.Sets {
			if s.WeightKg != nil && *s.WeightKg < 0 {
				return fmt.Errorf("exercise %d, set %d: weight_kg must not be negative", i, j)
			}
			if s.Reps != nil && *s.Reps < 0 {
				return fmt.Errorf("exercise %d, set %d: reps must not be negative", i, j)
			}
		}
	}
	return nil
}

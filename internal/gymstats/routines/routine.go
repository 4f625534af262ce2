package routines

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitstats/internal/gymstats/exercises"
)

// Routine is a reusable workout template.
type Routine struct {
	ID          int               `json:"id"`
	UserID      int               `json:"user_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	Exercises   []RoutineExercise `json:"routine_exercises"`
}

type RoutineExercise struct {
	ID         int                 `json:"id"`
	RoutineID  int                 `json:"routine_id"`
	ExerciseID int                 `json:"exercise_id"`
	OrderIndex int                 `json:"order_index"`
	Notes      string              `json:"notes"`
	Sets       []RoutineSet        `json:"sets"`
	Exercise   *exercises.Exercise `json:"exercise,omitempty"`
}

type RoutineSet struct {
	Index          int     `json:"set_index"`
	Type           string  `json:"set_type"`
	TargetReps     int     `json:"target_reps"`
	TargetWeightKg float64 `json:"target_weight_kg"`
}

func (r *Routine) Validate() error {
	if r.Name == "" {
		return errors.New("missing required field: name")
	}
	for i, re := range r.Exercises {
		if re.ExerciseID <= 0 {
			return fmt.Errorf("exercise %d: missing required field: exercise_id", i)
		}
		for j, s := range re.Sets {
			if s.TargetReps < 0 || s.TargetWeightKg < 0 {
				return fmt.Errorf("exercise %d, set %d: targets must not be negative", i, j)
			}
		}
	}
	return nil
}

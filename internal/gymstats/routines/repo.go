package routines

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitstats/internal/gymstats/exercises"
	"github.com/2beens/fitstats/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultSetType = "normal"

var ErrRoutineNotFound = errors.New("routine not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add stores the routine with its exercises and template sets in one transaction.
// Exercises keep the order they were given in.
func (r *Repo) Add(ctx context.Context, routine Routine) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO routines (user_id, name, description)
				VALUES ($1, $2, $3)
			RETURNING id, created_at;`,
			routine.UserID, routine.Name, routine.Description,
		).Scan(&routine.ID, &routine.CreatedAt); err != nil {
			return fmt.Errorf("insert routine: %w", err)
		}

		for i := range routine.Exercises {
			re := &routine.Exercises[i]
			re.RoutineID = routine.ID
			re.OrderIndex = i
			if err := tx.QueryRow(
				ctx,
				`INSERT INTO routine_exercises (routine_id, exercise_id, order_index, notes)
					VALUES ($1, $2, $3, $4)
				RETURNING id;`,
				routine.ID, re.ExerciseID, re.OrderIndex, re.Notes,
			).Scan(&re.ID); err != nil {
				return fmt.Errorf("insert routine exercise %d: %w", re.ExerciseID, err)
			}

			if len(re.Sets) == 0 {
				continue
			}

			batch := &pgx.Batch{}
			for j := range re.Sets {
				s := &re.Sets[j]
				s.Index = j
				if s.Type == "" {
					s.Type = defaultSetType
				}
				batch.Queue(
					`INSERT INTO routine_sets (routine_exercise_id, set_index, set_type, target_reps, target_weight_kg)
						VALUES ($1, $2, $3, $4, $5);`,
					re.ID, s.Index, s.Type, s.TargetReps, s.TargetWeightKg,
				)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("insert sets of routine exercise %d: %w", re.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("routine.id", routine.ID))
	return &routine, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, description, created_at
			FROM routines
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	routines, err := r.collectWithExercises(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(routines) != 1 {
		return nil, ErrRoutineNotFound
	}
	return &routines[0], nil
}

// List returns the user's routines, most recently created first.
func (r *Repo) List(ctx context.Context, userID int) (_ []Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, description, created_at
			FROM routines
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return r.collectWithExercises(ctx, rows)
}

func (r *Repo) Delete(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM routines WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

func (r *Repo) collectWithExercises(ctx context.Context, rows pgx.Rows) ([]Routine, error) {
	routines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Routine, error) {
		var rt Routine
		err := row.Scan(&rt.ID, &rt.UserID, &rt.Name, &rt.Description, &rt.CreatedAt)
		return rt, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}
	if len(routines) == 0 {
		return make([]Routine, 0), nil
	}

	ids := make([]int, 0, len(routines))
	for _, rt := range routines {
		ids = append(ids, rt.ID)
	}

	exercisesRows, err := r.db.Query(
		ctx,
		`SELECT re.id, re.routine_id, re.exercise_id, re.order_index, re.notes,
				e.name, e.equipment, e.primary_muscle_group, e.secondary_muscle_group, e.image_url,
				s.set_index, s.set_type, s.target_reps, s.target_weight_kg
			FROM routine_exercises re
				JOIN exercises e ON e.id = re.exercise_id
				LEFT JOIN routine_sets s ON s.routine_exercise_id = re.id
			WHERE re.routine_id = ANY($1)
			ORDER BY re.routine_id, re.order_index, re.id, s.set_index;`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer exercisesRows.Close()

	byRoutine := make(map[int][]RoutineExercise, len(ids))
	for exercisesRows.Next() {
		var (
			re             RoutineExercise
			e              exercises.Exercise
			setIndex       *int
			setType        *string
			targetReps     *int
			targetWeightKg *float64
		)
		if err := exercisesRows.Scan(
			&re.ID, &re.RoutineID, &re.ExerciseID, &re.OrderIndex, &re.Notes,
			&e.Name, &e.Equipment, &e.PrimaryMuscleGroup, &e.SecondaryMuscleGroup, &e.ImageURL,
			&setIndex, &setType, &targetReps, &targetWeightKg,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		list := byRoutine[re.RoutineID]
		if len(list) == 0 || list[len(list)-1].ID != re.ID {
			e.ID = re.ExerciseID
			re.Exercise = &e
			re.Sets = make([]RoutineSet, 0)
			list = append(list, re)
		}
		// a routine exercise without sets comes back with null set columns
		if setIndex != nil {
			s := RoutineSet{Index: *setIndex, Type: defaultSetType}
			if setType != nil {
				s.Type = *setType
			}
			if targetReps != nil {
				s.TargetReps = *targetReps
			}
			if targetWeightKg != nil {
				s.TargetWeightKg = *targetWeightKg
			}
			last := &list[len(list)-1]
			last.Sets = append(last.Sets, s)
		}
		byRoutine[re.RoutineID] = list
	}
	if err := exercisesRows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range routines {
		routines[i].Exercises = byRoutine[routines[i].ID]
		if routines[i].Exercises == nil {
			routines[i].Exercises = make([]RoutineExercise, 0)
		}
	}
	return routines, nil
}

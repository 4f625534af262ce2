package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitstats/internal/gymstats/exercises"
	"github.com/2beens/fitstats/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type ListParams struct {
	UserID int
	Limit  int
	Offset int
}

// RangeParams bounds the workout start time: From is inclusive, To exclusive. Nil means unbounded.
type RangeParams struct {
	UserID int
	From   *time.Time
	To     *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add stores the workout together with its exercises and sets in one transaction.
func (r *Repo) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO workouts
					(user_id, title, description, start_time, end_time)
					VALUES ($1, $2, $3, $4, $5)
				RETURNING id;`,
			workout.UserID, workout.Title, workout.Description, workout.StartTime, workout.EndTime,
		).Scan(&workout.ID); err != nil {
			return fmt.Errorf("insert workout: %w", err)
		}

		for i := range workout.Exercises {
			we := &workout.Exercises[i]
			we.WorkoutID = workout.ID
			if err := tx.QueryRow(
				ctx,
				`INSERT INTO workout_exercises
						(workout_id, exercise_id, notes)
						VALUES ($1, $2, $3)
					RETURNING id;`,
				workout.ID, we.ExerciseID, we.Notes,
			).Scan(&we.ID); err != nil {
				return fmt.Errorf("insert workout exercise %d: %w", we.ExerciseID, err)
			}

			if len(we.Sets) == 0 {
				continue
			}

			batch := &pgx.Batch{}
			for j := range we.Sets {
				s := &we.Sets[j]
				s.Index = j
				if s.Type == "" {
					s.Type = DefaultSetType
				}
				batch.Queue(
					`INSERT INTO sets (workout_exercise_id, set_index, set_type, weight_kg, reps)
						VALUES ($1, $2, $3, $4, $5);`,
					we.ID, s.Index, s.Type, s.Weight(), s.RepCount(),
				)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("insert sets of workout exercise %d: %w", we.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workout.id", workout.ID))
	return &workout, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, title, description, start_time, end_time
			FROM workouts
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	workouts, err := r.collectWithExercises(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &workouts[0], nil
}

// List returns a page of the user's history, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", params.UserID),
		attribute.Int("limit", params.Limit),
		attribute.Int("offset", params.Offset),
	)

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, title, description, start_time, end_time
			FROM workouts
			WHERE user_id = $1
			ORDER BY start_time DESC, id DESC
			LIMIT $2 OFFSET $3;`,
		params.UserID, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return r.collectWithExercises(ctx, rows)
}

// ListInRange returns the user's workouts started within the range, oldest first,
// with exercises and sets attached.
func (r *Repo) ListInRange(ctx context.Context, params RangeParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list_in_range")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, title, description, start_time, end_time
			FROM workouts
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR start_time >= $2)
				AND ($3::timestamptz IS NULL OR start_time < $3)
			ORDER BY start_time, id;`,
		params.UserID, params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	workouts, err := r.collectWithExercises(ctx, rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("count", len(workouts)))
	return workouts, nil
}

// ListExerciseEntries returns every performance of the exercise by the user in workouts
// started at or after from, ordered by workout start.
func (r *Repo) ListExerciseEntries(ctx context.Context, userID, exerciseID int, from time.Time) (_ []ExerciseEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list_exercise_entries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("exercise.id", exerciseID),
	)

	rows, err := r.db.Query(
		ctx,
		`SELECT we.id, w.start_time, s.set_index, s.set_type, s.weight_kg, s.reps
			FROM workout_exercises we
				JOIN workouts w ON w.id = we.workout_id
				LEFT JOIN sets s ON s.workout_exercise_id = we.id
			WHERE w.user_id = $1 AND we.exercise_id = $2 AND w.start_time >= $3
			ORDER BY w.start_time, we.id, s.set_index;`,
		userID, exerciseID, from,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var entries []ExerciseEntry
	for rows.Next() {
		var (
			entryID int
			start   time.Time
			set     nullableSet
		)
		if err := rows.Scan(&entryID, &start, &set.index, &set.setType, &set.weightKg, &set.reps); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		if len(entries) == 0 || entries[len(entries)-1].WorkoutExerciseID != entryID {
			entries = append(entries, ExerciseEntry{WorkoutExerciseID: entryID, WorkoutStart: start})
		}
		if s, ok := set.toSet(); ok {
			last := &entries[len(entries)-1]
			last.Sets = append(last.Sets, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(entries)))
	return entries, nil
}

// Delete removes the workout owned by userID; exercises and sets go with it (cascade).
func (r *Repo) Delete(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) collectWithExercises(ctx context.Context, rows pgx.Rows) ([]Workout, error) {
	workouts, err := pgx.CollectRows(rows, scanWorkout)
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}
	if len(workouts) == 0 {
		return make([]Workout, 0), nil
	}

	ids := make([]int, 0, len(workouts))
	for _, w := range workouts {
		ids = append(ids, w.ID)
	}

	exercisesByWorkout, err := r.loadExercises(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range workouts {
		workouts[i].Exercises = exercisesByWorkout[workouts[i].ID]
		if workouts[i].Exercises == nil {
			workouts[i].Exercises = make([]WorkoutExercise, 0)
		}
	}
	return workouts, nil
}

// loadExercises fetches the exercises and sets of all given workouts in a single query.
func (r *Repo) loadExercises(ctx context.Context, workoutIDs []int) (map[int][]WorkoutExercise, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT we.id, we.workout_id, we.exercise_id, we.notes,
				e.name, e.equipment, e.primary_muscle_group, e.secondary_muscle_group, e.image_url,
				s.set_index, s.set_type, s.weight_kg, s.reps
			FROM workout_exercises we
				JOIN exercises e ON e.id = we.exercise_id
				LEFT JOIN sets s ON s.workout_exercise_id = we.id
			WHERE we.workout_id = ANY($1)
			ORDER BY we.workout_id, we.id, s.set_index;`,
		workoutIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	res := make(map[int][]WorkoutExercise, len(workoutIDs))
	for rows.Next() {
		var (
			we  WorkoutExercise
			e   exercises.Exercise
			set nullableSet
		)
		if err := rows.Scan(
			&we.ID, &we.WorkoutID, &we.ExerciseID, &we.Notes,
			&e.Name, &e.Equipment, &e.PrimaryMuscleGroup, &e.SecondaryMuscleGroup, &e.ImageURL,
			&set.index, &set.setType, &set.weightKg, &set.reps,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		list := res[we.WorkoutID]
		if len(list) == 0 || list[len(list)-1].ID != we.ID {
			e.ID = we.ExerciseID
			we.Exercise = &e
			we.Sets = make([]Set, 0)
			list = append(list, we)
		}
		if s, ok := set.toSet(); ok {
			last := &list[len(list)-1]
			last.Sets = append(last.Sets, s)
		}
		res[we.WorkoutID] = list
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return res, nil
}

// nullableSet holds the set columns of a LEFT JOIN, all null for an exercise without sets.
type nullableSet struct {
	index    *int
	setType  *string
	weightKg *float64
	reps     *int
}

func (ns nullableSet) toSet() (Set, bool) {
	if ns.index == nil {
		return Set{}, false
	}
	s := Set{
		Index:    *ns.index,
		Type:     DefaultSetType,
		WeightKg: ns.weightKg,
		Reps:     ns.reps,
	}
	if ns.setType != nil {
		s.Type = *ns.setType
	}
	return s, true
}

func scanWorkout(row pgx.CollectableRow) (Workout, error) {
	var w Workout
	err := row.Scan(&w.ID, &w.UserID, &w.Title, &w.Description, &w.StartTime, &w.EndTime)
	return w, err
}

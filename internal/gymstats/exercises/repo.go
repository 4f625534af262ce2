package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitstats/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercises
				(name, equipment, primary_muscle_group, secondary_muscle_group, image_url)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		exercise.Name, exercise.Equipment, exercise.PrimaryMuscleGroup,
		exercise.SecondaryMuscleGroup, exercise.ImageURL,
	).Scan(&exercise.ID)
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))
	return &exercise, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, equipment, primary_muscle_group, secondary_muscle_group, image_url
			FROM exercises
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	exercises, err := pgx.CollectRows(rows, scanExercise)
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}
	if len(exercises) != 1 {
		return nil, ErrExerciseNotFound
	}

	return &exercises[0], nil
}

// List returns the whole catalog ordered by name.
func (r *Repo) List(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, equipment, primary_muscle_group, secondary_muscle_group, image_url
			FROM exercises
			ORDER BY name, id;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	exercises, err := pgx.CollectRows(rows, scanExercise)
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(exercises)))
	if exercises == nil {
		exercises = make([]Exercise, 0)
	}
	return exercises, nil
}

func scanExercise(row pgx.CollectableRow) (Exercise, error) {
	var e Exercise
	err := row.Scan(&e.ID, &e.Name, &e.Equipment, &e.PrimaryMuscleGroup, &e.SecondaryMuscleGroup, &e.ImageURL)
	return e, err
}

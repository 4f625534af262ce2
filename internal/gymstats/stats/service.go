package stats

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitstats/internal/gymstats/calendar"
	"github.com/2beens/fitstats/internal/gymstats/workouts"
	"github.com/2beens/fitstats/internal/telemetry/metrics"
	"github.com/2beens/fitstats/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=stats_test

type workoutsRepo interface {
	ListInRange(ctx context.Context, params workouts.RangeParams) ([]workouts.Workout, error)
	ListExerciseEntries(ctx context.Context, userID, exerciseID int, from time.Time) ([]workouts.ExerciseEntry, error)
}

type exerciseLookup interface {
	PrimaryMuscleGroups(ctx context.Context, ids []int) (map[int]string, error)
}

// Service resolves the window for a range, fetches the user's records in one query and folds them.
// Any fetch error aborts the request, no partial result is returned.
type Service struct {
	repo           workoutsRepo
	exercises      exerciseLookup
	now            func() time.Time
	location       *time.Location
	metricsManager *metrics.Manager
}

func NewService(
	repo workoutsRepo,
	exercises exerciseLookup,
	now func() time.Time,
	location *time.Location,
	metricsManager *metrics.Manager,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:           repo,
		exercises:      exercises,
		now:            now,
		location:       location,
		metricsManager: metricsManager,
	}
}

func (s *Service) observe(mode string, started time.Time) {
	s.metricsManager.HistogramAggregationDuration.
		WithLabelValues(mode).
		Observe(time.Since(started).Seconds())
}

// fetch returns the bucket skeleton for r and the user's workouts inside its window,
// with start and end times moved to the service location.
func (s *Service) fetch(ctx context.Context, userID int, r calendar.Range) ([]calendar.Bucket, []workouts.Workout, error) {
	now := s.now().In(s.location)
	from, to := calendar.ResolveWindow(r, now)

	ws, err := s.repo.ListInRange(ctx, workouts.RangeParams{
		UserID: userID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list workouts in range %s: %w", r, err)
	}

	for i := range ws {
		ws[i].StartTime = ws[i].StartTime.In(s.location)
		if ws[i].EndTime != nil {
			end := ws[i].EndTime.In(s.location)
			ws[i].EndTime = &end
		}
	}

	return calendar.GenerateBuckets(r, now), ws, nil
}

func (s *Service) WeeklyDuration(ctx context.Context, userID int, r calendar.Range) (_ []HoursPoint, err error) {
	defer s.observe("weekly_duration", time.Now())
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.weekly_duration")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.String("range", string(r)))

	buckets, ws, err := s.fetch(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	return DurationPerBucket(buckets, ws), nil
}

func (s *Service) Frequency(ctx context.Context, userID int, r calendar.Range) (_ []CountPoint, err error) {
	defer s.observe("frequency", time.Now())
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.frequency")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.String("range", string(r)))

	buckets, ws, err := s.fetch(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	return FrequencyPerBucket(buckets, ws), nil
}

func (s *Service) MuscleDistribution(ctx context.Context, userID int, r calendar.Range) (_ Histogram, err error) {
	defer s.observe("muscle_distribution", time.Now())
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.muscle_distribution")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.String("range", string(r)))

	_, ws, err := s.fetch(ctx, userID, r)
	if err != nil {
		return Histogram{}, err
	}

	// the repo joins the exercise already, the catalog only fills in what the join missed
	groups := make(map[int]string)
	var missing []int
	for _, w := range ws {
		for _, we := range w.Exercises {
			if we.Exercise != nil {
				groups[we.ExerciseID] = we.Exercise.PrimaryMuscleGroup
				continue
			}
			missing = append(missing, we.ExerciseID)
		}
	}

	if len(missing) > 0 {
		resolved, err := s.exercises.PrimaryMuscleGroups(ctx, missing)
		if err != nil {
			return Histogram{}, fmt.Errorf("resolve muscle groups: %w", err)
		}
		for id, group := range resolved {
			if _, joined := groups[id]; !joined {
				groups[id] = group
			}
		}
	}

	return MuscleGroupDistribution(ws, groups), nil
}

func (s *Service) WeekdayDistribution(ctx context.Context, userID int, r calendar.Range) (_ Histogram, err error) {
	defer s.observe("weekday_distribution", time.Now())
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.weekday_distribution")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.String("range", string(r)))

	_, ws, err := s.fetch(ctx, userID, r)
	if err != nil {
		return Histogram{}, err
	}
	return WeekdayDistribution(ws), nil
}

func (s *Service) Heatmap(ctx context.Context, userID int, r calendar.Range) (_ []HeatmapDay, err error) {
	defer s.observe("heatmap", time.Now())
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.heatmap")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.String("range", string(r)))

	_, ws, err := s.fetch(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	return Heatmap(ws), nil
}

func (s *Service) Summary(ctx context.Context, userID int, r calendar.Range) (_ Summary, err error) {
	defer s.observe("summary", time.Now())
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.String("range", string(r)))

	_, ws, err := s.fetch(ctx, userID, r)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(ws), nil
}

func (s *Service) Progression(ctx context.Context, userID, exerciseID int, r calendar.Range) (_ Progression, err error) {
	defer s.observe("progression", time.Now())
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.progression")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("exercise.id", exerciseID),
		attribute.String("range", string(r)),
	)

	from := calendar.ResolveStart(r, s.now().In(s.location))
	entries, err := s.repo.ListExerciseEntries(ctx, userID, exerciseID, from)
	if err != nil {
		return Progression{}, fmt.Errorf("list entries of exercise %d: %w", exerciseID, err)
	}

	for i := range entries {
		entries[i].WorkoutStart = entries[i].WorkoutStart.In(s.location)
	}
	return ExerciseProgression(entries), nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math"
	"net"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitstats/internal/auth"
	"github.com/2beens/fitstats/internal/config"
	"github.com/2beens/fitstats/internal/db"
	"github.com/2beens/fitstats/internal/gymstats/exercises"
	"github.com/2beens/fitstats/internal/gymstats/workouts"
	"github.com/2beens/fitstats/internal/logging"
)

var catalog = []exercises.Exercise{
	{Name: "Bench Press", Equipment: "barbell", PrimaryMuscleGroup: "chest"},
	{Name: "Incline Dumbbell Press", Equipment: "dumbbell", PrimaryMuscleGroup: "chest"},
	{Name: "Back Squat", Equipment: "barbell", PrimaryMuscleGroup: "legs"},
	{Name: "Leg Press", Equipment: "machine", PrimaryMuscleGroup: "legs"},
	{Name: "Deadlift", Equipment: "barbell", PrimaryMuscleGroup: "back"},
	{Name: "Pull Up", Equipment: "bodyweight", PrimaryMuscleGroup: "back"},
	{Name: "Overhead Press", Equipment: "barbell", PrimaryMuscleGroup: "shoulders"},
	{Name: "Lateral Raise", Equipment: "dumbbell", PrimaryMuscleGroup: "shoulders"},
	{Name: "Barbell Curl", Equipment: "barbell", PrimaryMuscleGroup: "biceps"},
	{Name: "Triceps Pushdown", Equipment: "cable", PrimaryMuscleGroup: "triceps"},
	{Name: "Plank", Equipment: "bodyweight", PrimaryMuscleGroup: "core"},
}

func main() {
	env := flag.String("env", "development", "environment [dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	envFile := flag.String("env-file", ".env", "optional dotenv file with secrets")
	userID := flag.Int("user", 1, "user id the workouts are seeded for")
	count := flag.Int("count", 150, "number of workouts spread over the last year")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one from the clock")
	createSession := flag.Bool("session", false, "create a session token for the user and print it")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load env file %s: %s", *envFile, err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.Infof("seeding %d workouts for user %d, seed %d", *count, *userID, *seed)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     os.Getenv("FITSTATS_POSTGRES_USER"),
		DBPassword: os.Getenv("FITSTATS_POSTGRES_PASS"),
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	if _, err := dbPool.Exec(ctx, db.Schema); err != nil {
		log.Fatalf("apply schema: %s", err)
	}

	exercisesRepo := exercises.NewRepo(dbPool)
	exerciseIDs, err := ensureCatalog(ctx, exercisesRepo)
	if err != nil {
		log.Fatalf("seed exercise catalog: %s", err)
	}

	faker := gofakeit.New(*seed)
	workoutsRepo := workouts.NewRepo(dbPool)
	now := time.Now()
	for i := 0; i < *count; i++ {
		w := fakeWorkout(faker, *userID, exerciseIDs, now)
		added, err := workoutsRepo.Add(ctx, w)
		if err != nil {
			log.Fatalf("add workout %d: %s", i, err)
		}
		log.Tracef("added workout %d [%s] at %s", added.ID, added.Title, added.StartTime)
	}
	log.Infof("seeded %d workouts", *count)

	if *createSession {
		token, err := newSessionToken(ctx, cfg, *userID)
		if err != nil {
			log.Fatalf("create session: %s", err)
		}
		fmt.Println(token)
	}
}

func ensureCatalog(ctx context.Context, repo *exercises.Repo) ([]int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		for _, e := range catalog {
			added, err := repo.Add(ctx, e)
			if err != nil {
				return nil, fmt.Errorf("add %s: %w", e.Name, err)
			}
			existing = append(existing, *added)
		}
	}

	ids := make([]int, 0, len(existing))
	for _, e := range existing {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func fakeWorkout(faker *gofakeit.Faker, userID int, exerciseIDs []int, now time.Time) workouts.Workout {
	daysAgo := faker.Number(0, 364)
	start := time.Date(now.Year(), now.Month(), now.Day(), faker.Number(6, 20), faker.Number(0, 59), 0, 0, now.Location()).
		AddDate(0, 0, -daysAgo)
	if start.After(now) {
		start = start.AddDate(0, 0, -1)
	}

	w := workouts.Workout{
		UserID:      userID,
		Title:       faker.RandomString([]string{"Push", "Pull", "Legs", "Upper", "Lower", "Full Body"}),
		Description: faker.Sentence(6),
		StartTime:   start,
	}
	// a few workouts are left unfinished
	if faker.Number(1, 10) > 1 {
		end := start.Add(time.Duration(faker.Number(25, 110)) * time.Minute)
		w.EndTime = &end
	}

	exCount := faker.Number(2, 5)
	for i := 0; i < exCount; i++ {
		we := workouts.WorkoutExercise{
			ExerciseID: exerciseIDs[faker.Number(0, len(exerciseIDs)-1)],
		}
		base := faker.Float64Range(20, 120)
		for s := 0; s < faker.Number(2, 5); s++ {
			weight := math.Round(base/2.5) * 2.5
			reps := faker.Number(5, 12)
			set := workouts.Set{Type: workouts.DefaultSetType, WeightKg: &weight, Reps: &reps}
			if s == 0 && faker.Bool() {
				set.Type = "warmup"
			}
			we.Sets = append(we.Sets, set)
		}
		w.Exercises = append(w.Exercises, we)
	}

	return w
}

func newSessionToken(ctx context.Context, cfg *config.Config, userID int) (string, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: os.Getenv("FITSTATS_REDIS_PASS"),
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	}()

	return auth.NewSessionStore(auth.DefaultTTL, rdb).Create(ctx, userID, time.Now())
}

//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/2beens/fitstats/internal/gymstats/exercises"
	"github.com/2beens/fitstats/internal/gymstats/workouts"
)

func ptr[T any](v T) *T {
	return &v
}

func (s *IntegrationTestSuite) addExercise(token, muscleGroup string) exercises.Exercise {
	status, body := s.do("POST", "/api/exercises", token, exercises.Exercise{
		Name:               gofakeit.Name() + " press",
		Equipment:          "barbell",
		PrimaryMuscleGroup: muscleGroup,
	})
	s.Require().Equal(http.StatusCreated, status, string(body))
	return decodeData[exercises.Exercise](s, body)
}

func (s *IntegrationTestSuite) addWorkout(token string, w workouts.Workout) int {
	status, body := s.do("POST", "/api/workouts", token, w)
	s.Require().Equal(http.StatusCreated, status, string(body))
	resp := decodeData[messageResponse](s, body)
	s.Equal("Workout logged", resp.Message)
	s.Positive(resp.WorkoutID)
	return resp.WorkoutID
}

func (s *IntegrationTestSuite) TestExercises() {
	token := s.newSession(100)

	status, _ := s.do("POST", "/api/exercises", "", exercises.Exercise{Name: "x"})
	s.Equal(http.StatusUnauthorized, status)

	status, body := s.do("POST", "/api/exercises", token, exercises.Exercise{Name: "Squat"})
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "equipment")

	added := s.addExercise(token, "legs")

	// the catalog is public
	status, body = s.do("GET", "/api/exercises", "", nil)
	s.Require().Equal(http.StatusOK, status)
	catalog := decodeData[[]exercises.Exercise](s, body)
	s.Contains(catalog, added)
}

func (s *IntegrationTestSuite) TestWorkouts_Lifecycle() {
	const userID = 101
	token := s.newSession(userID)
	otherToken := s.newSession(userID + 1)
	ex := s.addExercise(token, "chest")

	start := time.Now().UTC().Add(-3 * time.Hour).Truncate(time.Second)
	older := s.addWorkout(token, workouts.Workout{
		Title:     "Older",
		StartTime: start.Add(-24 * time.Hour),
	})
	newer := s.addWorkout(token, workouts.Workout{
		Title:     "Push day",
		StartTime: start,
		EndTime:   ptr(start.Add(75 * time.Minute)),
		Exercises: []workouts.WorkoutExercise{
			{
				ExerciseID: ex.ID,
				Sets: []workouts.Set{
					{WeightKg: ptr(100.0), Reps: ptr(5)},
					{WeightKg: ptr(80.0), Reps: ptr(8)},
					{Reps: ptr(12)},
				},
			},
		},
	})

	status, body := s.do("GET", fmt.Sprintf("/api/workouts/%d", userID), token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	list := decodeData[[]workouts.Workout](s, body)
	s.Require().Len(list, 2)
	s.Equal(newer, list[0].ID)
	s.Equal(older, list[1].ID)
	s.Equal("1h 15m", list[0].Duration)
	s.InDelta(1140.0, list[0].TotalVolume, 0.001)
	s.Empty(list[1].Duration)

	status, body = s.do("GET", fmt.Sprintf("/api/workouts/%d?limit=1&offset=1", userID), token, nil)
	s.Require().Equal(http.StatusOK, status)
	page := decodeData[[]workouts.Workout](s, body)
	s.Require().Len(page, 1)
	s.Equal(older, page[0].ID)

	status, body = s.do("GET", fmt.Sprintf("/api/workouts/detail/%d", newer), token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	detail := decodeData[workouts.Workout](s, body)
	s.Require().Len(detail.Exercises, 1)
	s.Require().Len(detail.Exercises[0].Sets, 3)
	s.Equal(workouts.DefaultSetType, detail.Exercises[0].Sets[0].Type)
	s.Require().NotNil(detail.Exercises[0].Exercise)
	s.Equal("chest", detail.Exercises[0].Exercise.PrimaryMuscleGroup)

	// other users see neither the list nor the workout
	status, _ = s.do("GET", fmt.Sprintf("/api/workouts/%d", userID), otherToken, nil)
	s.Equal(http.StatusForbidden, status)
	status, _ = s.do("GET", fmt.Sprintf("/api/workouts/detail/%d", newer), otherToken, nil)
	s.Equal(http.StatusNotFound, status)
	status, _ = s.do("DELETE", fmt.Sprintf("/api/workouts/%d", newer), otherToken, nil)
	s.Equal(http.StatusNotFound, status)

	status, body = s.do("DELETE", fmt.Sprintf("/api/workouts/%d", newer), token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	s.Equal("Workout deleted", decodeData[messageResponse](s, body).Message)

	status, _ = s.do("GET", fmt.Sprintf("/api/workouts/detail/%d", newer), token, nil)
	s.Equal(http.StatusNotFound, status)

	// sets and workout exercises go with the workout
	var remaining int
	s.Require().NoError(s.DB.QueryRow(
		`SELECT count(*) FROM sets s
			JOIN workout_exercises we ON we.id = s.workout_exercise_id
			WHERE we.workout_id = $1`, newer,
	).Scan(&remaining))
	s.Zero(remaining)
}

func (s *IntegrationTestSuite) TestWorkouts_Validation() {
	token := s.newSession(103)

	status, _ := s.do("POST", "/api/workouts", token, workouts.Workout{StartTime: time.Now()})
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.do("POST", "/api/workouts", token, workouts.Workout{
		Title:     "Ghost",
		StartTime: time.Now(),
		Exercises: []workouts.WorkoutExercise{{ExerciseID: 999999}},
	})
	s.Equal(http.StatusBadRequest, status)

	// nothing of the failed insert is left behind
	var count int
	s.Require().NoError(s.DB.QueryRow(`SELECT count(*) FROM workouts WHERE user_id = 103`).Scan(&count))
	s.Zero(count)
}

func (s *IntegrationTestSuite) TestWorkoutsRepo_ListInRange() {
	ctx := context.Background()
	const userID = 104
	token := s.newSession(userID)
	ex := s.addExercise(token, "back")

	now := time.Now().UTC().Truncate(time.Second)
	for _, daysAgo := range []int{40, 10, 2} {
		s.addWorkout(token, workouts.Workout{
			Title:     fmt.Sprintf("%d days ago", daysAgo),
			StartTime: now.AddDate(0, 0, -daysAgo),
			EndTime:   ptr(now.AddDate(0, 0, -daysAgo).Add(time.Hour)),
			Exercises: []workouts.WorkoutExercise{
				{ExerciseID: ex.ID, Sets: []workouts.Set{{WeightKg: ptr(float64(100 - daysAgo)), Reps: ptr(5)}}},
			},
		})
	}

	repo := workouts.NewRepo(s.dbPool)
	from := now.AddDate(0, 0, -30)
	inRange, err := repo.ListInRange(ctx, workouts.RangeParams{UserID: userID, From: &from})
	s.Require().NoError(err)
	s.Require().Len(inRange, 2)
	s.Equal("10 days ago", inRange[0].Title)
	s.Equal("2 days ago", inRange[1].Title)
	s.Require().Len(inRange[1].Exercises, 1)
	s.Len(inRange[1].Exercises[0].Sets, 1)

	entries, err := repo.ListExerciseEntries(ctx, userID, ex.ID, from)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

//go:build integration_test || all_tests

package test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitstats/internal/gymstats/stats"
	"github.com/2beens/fitstats/internal/gymstats/workouts"
)

func (s *IntegrationTestSuite) TestStats() {
	const userID = 200
	token := s.newSession(userID)
	chest := s.addExercise(token, "chest")
	legs := s.addExercise(token, "legs")

	// two hours back is always within the weekly window, whatever time the suite runs at
	start := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	s.addWorkout(token, workouts.Workout{
		Title:     "Full body",
		StartTime: start,
		EndTime:   ptr(start.Add(90 * time.Minute)),
		Exercises: []workouts.WorkoutExercise{
			{ExerciseID: chest.ID, Sets: []workouts.Set{{WeightKg: ptr(60.0), Reps: ptr(10)}, {WeightKg: ptr(70.0), Reps: ptr(8)}}},
			{ExerciseID: legs.ID, Sets: []workouts.Set{{WeightKg: ptr(100.0), Reps: ptr(5)}}},
		},
	})
	// never finished, counts for frequency only
	s.addWorkout(token, workouts.Workout{
		Title:     "Abandoned",
		StartTime: start.Add(-time.Minute),
		Exercises: []workouts.WorkoutExercise{
			{ExerciseID: chest.ID},
		},
	})

	path := func(mode string) string {
		return fmt.Sprintf("/api/stats/%s/%d?range=1week", mode, userID)
	}

	status, body := s.do("GET", path("weekly-duration"), token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	hours := decodeData[[]stats.HoursPoint](s, body)
	s.Require().Len(hours, 7)
	totalHours := 0.0
	for _, p := range hours {
		totalHours += p.Hours
	}
	s.InDelta(1.5, totalHours, 0.0001)

	status, body = s.do("GET", path("frequency"), token, nil)
	s.Require().Equal(http.StatusOK, status)
	freq := decodeData[[]stats.CountPoint](s, body)
	s.Require().Len(freq, 7)
	total := 0
	for _, p := range freq {
		total += p.Count
	}
	s.Equal(2, total)

	status, body = s.do("GET", path("muscle-distribution"), token, nil)
	s.Require().Equal(http.StatusOK, status)
	muscles := decodeData[stats.Histogram](s, body)
	s.Equal([]string{"chest", "legs"}, muscles.Labels)
	s.Equal([]int{2, 1}, muscles.Values)

	status, body = s.do("GET", path("weekday-distribution"), token, nil)
	s.Require().Equal(http.StatusOK, status)
	weekdays := decodeData[stats.Histogram](s, body)
	s.Len(weekdays.Labels, 7)
	s.Equal("Monday", weekdays.Labels[0])

	status, body = s.do("GET", path("summary"), token, nil)
	s.Require().Equal(http.StatusOK, status)
	summary := decodeData[stats.Summary](s, body)
	s.Equal(2, summary.Workouts)
	s.Equal(1, summary.CompletedWorkouts)
	s.InDelta(1.5, summary.TotalHours, 0.0001)
	s.InDelta(60*10+70*8+100*5, summary.TotalVolume, 0.0001)

	status, body = s.do("GET", path("heatmap"), token, nil)
	s.Require().Equal(http.StatusOK, status)
	heatmap := decodeData[[]stats.HeatmapDay](s, body)
	days := 0
	for _, d := range heatmap {
		days += d.Count
	}
	s.Equal(2, days)

	status, body = s.do("GET",
		fmt.Sprintf("/api/stats/progression/%d/exercise/%d?range=1m", userID, chest.ID), token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	progression := decodeData[stats.Progression](s, body)
	s.Equal([]string{start.Format("2006-01-02")}, progression.Dates)
	s.Equal([]float64{70}, progression.Weights)

	// someone else's stats
	status, _ = s.do("GET", path("summary"), s.newSession(userID+1), nil)
	s.Equal(http.StatusForbidden, status)
}

func (s *IntegrationTestSuite) TestStats_EmptyHistory() {
	const userID = 201
	token := s.newSession(userID)

	status, body := s.do("GET", fmt.Sprintf("/api/stats/weekly-duration/%d?range=bogus", userID), token, nil)
	s.Require().Equal(http.StatusOK, status)
	// unknown ranges fall back to 3 months of weekly buckets
	hours := decodeData[[]stats.HoursPoint](s, body)
	s.Len(hours, 12)
	for _, p := range hours {
		s.Zero(p.Hours)
	}

	status, body = s.do("GET", fmt.Sprintf("/api/stats/muscle-distribution/%d", userID), token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.JSONEq(`{"data":{"labels":[],"values":[]}}`, string(body))
}

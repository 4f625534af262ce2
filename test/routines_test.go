//go:build integration_test || all_tests

package test

import (
	"fmt"
	"net/http"

	"github.com/2beens/fitstats/internal/gymstats/routines"
)

func (s *IntegrationTestSuite) TestRoutines_Lifecycle() {
	const userID = 300
	token := s.newSession(userID)
	squat := s.addExercise(token, "legs")
	bench := s.addExercise(token, "chest")

	status, body := s.do("POST", "/api/routines", token, routines.Routine{
		Name: "Strength A",
		Exercises: []routines.RoutineExercise{
			{ExerciseID: squat.ID, OrderIndex: 0, Sets: []routines.RoutineSet{
				{TargetReps: 5, TargetWeightKg: 100},
				{TargetReps: 5, TargetWeightKg: 100},
			}},
			{ExerciseID: bench.ID, OrderIndex: 1, Sets: []routines.RoutineSet{
				{TargetReps: 8, TargetWeightKg: 60},
			}},
		},
	})
	s.Require().Equal(http.StatusCreated, status, string(body))
	added := decodeData[routines.Routine](s, body)
	s.Positive(added.ID)
	s.Equal(userID, added.UserID)
	s.False(added.CreatedAt.IsZero())

	status, body = s.do("GET", fmt.Sprintf("/api/routines/%d", userID), token, nil)
	s.Require().Equal(http.StatusOK, status)
	list := decodeData[[]routines.Routine](s, body)
	s.Require().Len(list, 1)
	s.Equal("Strength A", list[0].Name)

	status, body = s.do("GET", fmt.Sprintf("/api/routines/detail/%d", added.ID), token, nil)
	s.Require().Equal(http.StatusOK, status)
	detail := decodeData[routines.Routine](s, body)
	s.Require().Len(detail.Exercises, 2)
	s.Equal(squat.ID, detail.Exercises[0].ExerciseID)
	s.Len(detail.Exercises[0].Sets, 2)
	s.Equal(bench.ID, detail.Exercises[1].ExerciseID)

	status, _ = s.do("GET", fmt.Sprintf("/api/routines/detail/%d", added.ID), s.newSession(userID+1), nil)
	s.Equal(http.StatusNotFound, status)

	status, body = s.do("DELETE", fmt.Sprintf("/api/routines/%d", added.ID), token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.JSONEq(`{"data":{"message":"Routine deleted"}}`, string(body))

	var sets int
	s.Require().NoError(s.DB.QueryRow(
		`SELECT count(*) FROM routine_sets rs
			JOIN routine_exercises re ON re.id = rs.routine_exercise_id
			WHERE re.routine_id = $1`, added.ID,
	).Scan(&sets))
	s.Zero(sets)
}

func (s *IntegrationTestSuite) TestSession() {
	token := s.newSession(400)

	status, body := s.do("GET", "/api/session", token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.JSONEq(`{"data":{"user_id":400}}`, string(body))

	status, _ = s.do("GET", "/api/session", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, status)
}

//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

type dataResponse[T any] struct {
	Data T `json:"data"`
}

type messageResponse struct {
	Message   string `json:"message"`
	WorkoutID int    `json:"workout_id,omitempty"`
}

// do sends a request to the running server and returns the status code and the raw body.
func (s *IntegrationTestSuite) do(method, path, token string, body any) (int, []byte) {
	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", testAgent)
	req.Header.Set("Origin", testOrigin)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	return resp.StatusCode, respBytes
}

func decodeData[T any](s *IntegrationTestSuite, raw []byte) T {
	var resp dataResponse[T]
	s.Require().NoError(json.Unmarshal(raw, &resp), string(raw))
	return resp.Data
}

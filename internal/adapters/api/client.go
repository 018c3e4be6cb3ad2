// Package api implements the WorkoutAPI port against the FitPilot
// platform's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
	"github.com/fitpilot/fitpilot-cli/internal/ports"
)

// Server error codes carried in the error response body. Mapped onto
// the domain sentinels before the HTTP status fallback.
const (
	codeConflict     = "conflict"
	codeInvalidState = "invalid_state"
	codeOutOfOrder   = "out_of_order"
	codeNotFound     = "not_found"
)

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Status int
	Code   string
	Detail string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Unwrap maps the response onto the matching domain sentinel so
// callers can use errors.Is without inspecting transport details.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case codeConflict:
		return domain.ErrWorkoutConflict
	case codeInvalidState:
		return domain.ErrWorkoutFinished
	case codeOutOfOrder:
		return domain.ErrSetOutOfOrder
	case codeNotFound:
		return domain.ErrNotFound
	}
	switch e.Status {
	case http.StatusNotFound, http.StatusForbidden:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrWorkoutConflict
	case http.StatusBadRequest:
		return domain.ErrWorkoutFinished
	}
	return nil
}

// Client talks to the FitPilot server over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check: Client satisfies the WorkoutAPI port.
var _ ports.WorkoutAPI = (*Client)(nil)

// New creates a client targeting the given base URL. The token, if not
// empty, is sent as a bearer credential on every request.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", domain.NewRequestID())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return fmt.Errorf("api: %s %s: %w", method, path,
			&StatusError{Status: resp.StatusCode, Code: eb.Code, Detail: eb.Detail})
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("api: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// NextWorkout returns the client's position in the sequential program.
func (c *Client) NextWorkout(ctx context.Context) (*domain.NextWorkout, error) {
	var next domain.NextWorkout
	if err := c.do(ctx, http.MethodGet, "/workout-logs/next", nil, nil, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// TrainingDay fetches a full training day with its ordered exercises.
func (c *Client) TrainingDay(ctx context.Context, id string) (*domain.TrainingDay, error) {
	var day domain.TrainingDay
	if err := c.do(ctx, http.MethodGet, "/training-days/"+id, nil, nil, &day); err != nil {
		return nil, err
	}
	return &day, nil
}

// MissedWorkouts lists scheduled days not executed within daysBack days.
func (c *Client) MissedWorkouts(ctx context.Context, daysBack int) ([]domain.MissedWorkout, error) {
	params := url.Values{}
	params.Set("days_back", strconv.Itoa(daysBack))

	var resp struct {
		MissedWorkouts []domain.MissedWorkout `json:"missed_workouts"`
		Total          int                    `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/workout-logs/missed", params, nil, &resp); err != nil {
		return nil, err
	}
	return resp.MissedWorkouts, nil
}

// CreateWorkoutLog starts a new workout for the training day.
func (c *Client) CreateWorkoutLog(ctx context.Context, trainingDayID string) (*domain.WorkoutLog, error) {
	payload := map[string]string{"training_day_id": trainingDayID}

	var log domain.WorkoutLog
	if err := c.do(ctx, http.MethodPost, "/workout-logs", nil, payload, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// WorkoutState fetches the full authoritative session state.
func (c *Client) WorkoutState(ctx context.Context, workoutLogID string) (*domain.WorkoutState, error) {
	var state domain.WorkoutState
	if err := c.do(ctx, http.MethodGet, "/workout-logs/"+workoutLogID+"/state", nil, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// LogSet records one completed set against the workout log.
func (c *Client) LogSet(ctx context.Context, workoutLogID string, req domain.SetLogRequest) (*domain.ExerciseSetLog, error) {
	var set domain.ExerciseSetLog
	if err := c.do(ctx, http.MethodPost, "/workout-logs/"+workoutLogID+"/sets", nil, req, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// UpdateWorkoutStatus applies the terminal complete/abandon transition.
func (c *Client) UpdateWorkoutStatus(ctx context.Context, workoutLogID string, update domain.StatusUpdate) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	if err := c.do(ctx, http.MethodPatch, "/workout-logs/"+workoutLogID, nil, update, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// Package mcp provides the MCP (Model Context Protocol) server
// implementation, exposing workout session operations to LLM agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
	"github.com/fitpilot/fitpilot-cli/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go. Every tool
// call goes straight to the workout API: the server holds no session
// state of its own, so agents see exactly what the backend reports.
type Server struct {
	server  *server.MCPServer
	api     ports.WorkoutAPI
	history ports.HistoryRepository
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewServer creates a new MCP server instance. history may be nil.
func NewServer(api ports.WorkoutAPI, history ports.HistoryRepository) *Server {
	s := &Server{
		api:     api,
		history: history,
	}

	s.server = server.NewMCPServer(
		"fitpilot-workouts",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool: get_next_workout
	s.server.AddTool(
		mcp.NewTool(
			"get_next_workout",
			mcp.WithDescription("Get the next training day in the client's sequential program, with position and completion info"),
		),
		s.handleGetNextWorkout,
	)

	// Tool: start_workout
	startTool := mcp.NewTool(
		"start_workout",
		mcp.WithDescription("Create a workout log for a training day, starting a new session"),
		mcp.WithString(
			"training_day_id",
			mcp.Required(),
			mcp.Description("The ID of the training day to execute"),
		),
	)
	s.server.AddTool(startTool, s.handleStartWorkout)

	// Tool: get_workout_state
	stateTool := mcp.NewTool(
		"get_workout_state",
		mcp.WithDescription("Get the full authoritative state of a workout log, including per-exercise progress"),
		mcp.WithString(
			"workout_log_id",
			mcp.Required(),
			mcp.Description("The ID of the workout log"),
		),
	)
	s.server.AddTool(stateTool, s.handleGetWorkoutState)

	// Tool: log_set
	logSetTool := mcp.NewTool(
		"log_set",
		mcp.WithDescription("Record one completed set. Set numbers per exercise must be logged in order starting from 1"),
		mcp.WithString(
			"workout_log_id",
			mcp.Required(),
			mcp.Description("The ID of the in-progress workout log"),
		),
		mcp.WithString(
			"day_exercise_id",
			mcp.Required(),
			mcp.Description("The ID of the planned exercise slot"),
		),
		mcp.WithNumber(
			"set_number",
			mcp.Required(),
			mcp.Description("1-based set number, contiguous with previously logged sets"),
		),
		mcp.WithNumber(
			"reps_completed",
			mcp.Required(),
			mcp.Description("Repetitions actually performed"),
		),
		mcp.WithNumber(
			"weight_kg",
			mcp.Description("Weight used in kilograms; omit for bodyweight"),
		),
	)
	s.server.AddTool(logSetTool, s.handleLogSet)

	// Tool: complete_workout
	completeTool := mcp.NewTool(
		"complete_workout",
		mcp.WithDescription("Mark a workout log as completed. Terminal: no further sets can be logged"),
		mcp.WithString(
			"workout_log_id",
			mcp.Required(),
			mcp.Description("The ID of the in-progress workout log"),
		),
	)
	s.server.AddTool(completeTool, s.handleCompleteWorkout)

	// Tool: abandon_workout
	abandonTool := mcp.NewTool(
		"abandon_workout",
		mcp.WithDescription("Abandon a workout log with a reason. Terminal: no further sets can be logged"),
		mcp.WithString(
			"workout_log_id",
			mcp.Required(),
			mcp.Description("The ID of the in-progress workout log"),
		),
		mcp.WithString(
			"reason",
			mcp.Required(),
			mcp.Description("Why the workout is being abandoned"),
			mcp.Enum("time", "injury", "fatigue", "motivation", "schedule", "other"),
		),
		mcp.WithString(
			"notes",
			mcp.Description("Optional free-form notes"),
		),
	)
	s.server.AddTool(abandonTool, s.handleAbandonWorkout)

	// Tool: list_missed_workouts
	missedTool := mcp.NewTool(
		"list_missed_workouts",
		mcp.WithDescription("List scheduled training days the client did not execute"),
		mcp.WithNumber(
			"days_back",
			mcp.Description("How many days to look back (default: 14)"),
		),
	)
	s.server.AddTool(missedTool, s.handleListMissedWorkouts)

	// Tool: get_workout_history
	historyTool := mcp.NewTool(
		"get_workout_history",
		mcp.WithDescription("List recently finished workouts from the local history cache"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum entries to return (default: 30)"),
		),
	)
	s.server.AddTool(historyTool, s.handleGetWorkoutHistory)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// handleGetNextWorkout handles the get_next_workout tool.
func (s *Server) handleGetNextWorkout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	next, err := s.api.NextWorkout(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get next workout: %w", err)
	}

	result := map[string]interface{}{
		"all_completed": next.AllCompleted,
		"training_day":  nil,
	}
	if next.TrainingDay != nil {
		result["training_day"] = map[string]interface{}{
			"id":         next.TrainingDay.ID,
			"name":       next.TrainingDay.Name,
			"focus":      next.TrainingDay.Focus,
			"day_number": next.TrainingDay.DayNumber,
			"rest_day":   next.TrainingDay.RestDay,
		}
	}
	if next.Position != nil {
		result["position"] = *next.Position
	}
	if next.Total != nil {
		result["total"] = *next.Total
	}

	return jsonResult(result)
}

// handleStartWorkout handles the start_workout tool.
func (s *Server) handleStartWorkout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trainingDayID, err := request.RequireString("training_day_id")
	if err != nil {
		return mcp.NewToolResultError("training_day_id is required: " + err.Error()), nil
	}

	log, err := s.api.CreateWorkoutLog(ctx, trainingDayID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start workout: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"workout_log_id":  log.ID,
		"training_day_id": log.TrainingDayID,
		"status":          string(log.Status),
		"started_at":      log.StartedAt.Format(time.RFC3339),
	})
}

// handleGetWorkoutState handles the get_workout_state tool.
func (s *Server) handleGetWorkoutState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutLogID, err := request.RequireString("workout_log_id")
	if err != nil {
		return mcp.NewToolResultError("workout_log_id is required: " + err.Error()), nil
	}

	state, err := s.api.WorkoutState(ctx, workoutLogID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get workout state: %v", err)), nil
	}

	var exercises []map[string]interface{}
	for i := range state.Progress {
		p := &state.Progress[i]
		exercise := map[string]interface{}{
			"day_exercise_id": p.DayExerciseID,
			"exercise_name":   p.ExerciseName,
			"total_sets":      p.TotalSets,
			"completed_sets":  p.CompletedSets,
			"is_completed":    p.IsCompleted,
			"next_set_number": p.NextSetNumber(),
		}
		if last := p.LastSet(); last != nil {
			lastSet := map[string]interface{}{
				"set_number":     last.SetNumber,
				"reps_completed": last.RepsCompleted,
			}
			if last.WeightKg != nil {
				lastSet["weight_kg"] = *last.WeightKg
			}
			exercise["last_set"] = lastSet
		}
		exercises = append(exercises, exercise)
	}

	result := map[string]interface{}{
		"workout_log_id":      state.WorkoutLog.ID,
		"status":              string(state.WorkoutLog.Status),
		"training_day_name":   state.TrainingDayName,
		"total_exercises":     state.TotalExercises,
		"completed_exercises": state.CompletedExercises,
		"exercises":           exercises,
	}
	if state.TrainingDayFocus != "" {
		result["training_day_focus"] = state.TrainingDayFocus
	}

	return jsonResult(result)
}

// handleLogSet handles the log_set tool.
func (s *Server) handleLogSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutLogID, err := request.RequireString("workout_log_id")
	if err != nil {
		return mcp.NewToolResultError("workout_log_id is required: " + err.Error()), nil
	}
	dayExerciseID, err := request.RequireString("day_exercise_id")
	if err != nil {
		return mcp.NewToolResultError("day_exercise_id is required: " + err.Error()), nil
	}
	setNumber, err := request.RequireInt("set_number")
	if err != nil {
		return mcp.NewToolResultError("set_number is required: " + err.Error()), nil
	}
	reps, err := request.RequireInt("reps_completed")
	if err != nil {
		return mcp.NewToolResultError("reps_completed is required: " + err.Error()), nil
	}

	req := domain.SetLogRequest{
		DayExerciseID: dayExerciseID,
		SetNumber:     setNumber,
		RepsCompleted: reps,
	}
	if weight := request.GetFloat("weight_kg", 0); weight > 0 {
		req.WeightKg = &weight
	}

	set, err := s.api.LogSet(ctx, workoutLogID, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to log set: %v", err)), nil
	}

	result := map[string]interface{}{
		"set_id":          set.ID,
		"day_exercise_id": set.DayExerciseID,
		"set_number":      set.SetNumber,
		"reps_completed":  set.RepsCompleted,
	}
	if set.WeightKg != nil {
		result["weight_kg"] = *set.WeightKg
	}

	return jsonResult(result)
}

// handleCompleteWorkout handles the complete_workout tool.
func (s *Server) handleCompleteWorkout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutLogID, err := request.RequireString("workout_log_id")
	if err != nil {
		return mcp.NewToolResultError("workout_log_id is required: " + err.Error()), nil
	}

	log, err := s.api.UpdateWorkoutStatus(ctx, workoutLogID, domain.StatusUpdate{
		Status: domain.WorkoutCompleted,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete workout: %v", err)), nil
	}

	return jsonResult(statusResult(log))
}

// handleAbandonWorkout handles the abandon_workout tool.
func (s *Server) handleAbandonWorkout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutLogID, err := request.RequireString("workout_log_id")
	if err != nil {
		return mcp.NewToolResultError("workout_log_id is required: " + err.Error()), nil
	}
	rawReason, err := request.RequireString("reason")
	if err != nil {
		return mcp.NewToolResultError("reason is required: " + err.Error()), nil
	}
	reason, err := domain.ParseAbandonReason(rawReason)
	if err != nil {
		return mcp.NewToolResultError("invalid reason: " + rawReason), nil
	}

	log, err := s.api.UpdateWorkoutStatus(ctx, workoutLogID, domain.StatusUpdate{
		Status:        domain.WorkoutAbandoned,
		AbandonReason: &reason,
		AbandonNotes:  request.GetString("notes", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to abandon workout: %v", err)), nil
	}

	return jsonResult(statusResult(log))
}

// handleListMissedWorkouts handles the list_missed_workouts tool.
func (s *Server) handleListMissedWorkouts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	daysBack := request.GetInt("days_back", 14)

	missed, err := s.api.MissedWorkouts(ctx, daysBack)
	if err != nil {
		return nil, fmt.Errorf("failed to list missed workouts: %w", err)
	}

	var items []map[string]interface{}
	for _, mw := range missed {
		items = append(items, map[string]interface{}{
			"training_day_id":   mw.TrainingDayID,
			"training_day_name": mw.TrainingDayName,
			"scheduled_date":    mw.ScheduledDate,
			"day_number":        mw.DayNumber,
			"microcycle_week":   mw.MicrocycleWeek,
			"exercises_count":   mw.ExercisesCount,
		})
	}

	return jsonResult(map[string]interface{}{
		"missed":      items,
		"total_count": len(items),
		"days_back":   daysBack,
	})
}

// handleGetWorkoutHistory handles the get_workout_history tool.
func (s *Server) handleGetWorkoutHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("local history is not available"), nil
	}

	limit := request.GetInt("limit", 30)

	entries, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	var items []map[string]interface{}
	for _, entry := range entries {
		item := map[string]interface{}{
			"workout_log_id":    entry.WorkoutLogID,
			"training_day_name": entry.TrainingDayName,
			"status":            string(entry.Status),
			"started_at":        entry.StartedAt.Format(time.RFC3339),
			"finished_at":       entry.FinishedAt.Format(time.RFC3339),
			"sets_logged":       entry.SetsLogged,
		}
		if entry.AbandonReason != nil {
			item["abandon_reason"] = string(*entry.AbandonReason)
		}
		items = append(items, item)
	}

	return jsonResult(map[string]interface{}{
		"workouts":    items,
		"total_count": len(items),
	})
}

func statusResult(log *domain.WorkoutLog) map[string]interface{} {
	result := map[string]interface{}{
		"workout_log_id": log.ID,
		"status":         string(log.Status),
	}
	if log.CompletedAt != nil {
		result["completed_at"] = log.CompletedAt.Format(time.RFC3339)
	}
	if log.AbandonReason != nil {
		result["abandon_reason"] = string(*log.AbandonReason)
	}
	return result
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

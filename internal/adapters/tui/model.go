// Package tui implements the interactive workout session view.
package tui

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
	"github.com/fitpilot/fitpilot-cli/internal/ports"
	"github.com/fitpilot/fitpilot-cli/internal/services"
)

// Controller is the session facade the view drives. Implemented by
// services.SessionService; narrowed to an interface so the model can be
// tested against a stub.
type Controller interface {
	Snapshot() services.Snapshot
	TrainingDay() *domain.TrainingDay
	LogSet(ctx context.Context, req domain.SetLogRequest) error
	CompleteWorkout(ctx context.Context) error
	AbandonWorkout(ctx context.Context, reason domain.AbandonReason, notes string) error
	SelectExercise(index int)
	AdvanceExercise()
	AdjustReps(delta int)
	AdjustWeight(delta float64)
	ClearError()
	SetsLogged() int
}

// mode is the view's interaction state.
type mode int

const (
	modeSession mode = iota
	modeLeave
	modeAbandonReason
	modeAbandonNotes
	modeConfirmFinish
)

// Outcome values reported to the caller after the program exits.
const (
	OutcomeSaved     = "saved"
	OutcomeCompleted = "completed"
	OutcomeAbandoned = "abandoned"
)

// setLoggedMsg reports the result of a log-set operation.
type setLoggedMsg struct {
	exerciseID   string
	exerciseName string
	setNumber    int
	totalSets    int
	restSeconds  int
	err          error
}

// completedMsg reports the result of the complete transition.
type completedMsg struct {
	dayName    string
	setsLogged int
	err        error
}

// abandonedMsg reports the result of the abandon transition.
type abandonedMsg struct {
	err error
}

// Model is the bubbletea model for an active workout session.
type Model struct {
	ctrl       Controller
	notifier   ports.Notifier
	weightStep float64

	snap      services.Snapshot
	marks     map[string]domain.SetMark
	collapsed map[domain.Phase]bool
	rest      restTimer

	mode         mode
	leaveCursor  int
	reasonCursor int
	notesInput   textinput.Model

	saving  bool
	errText string

	width  int
	height int

	// Outcome is set when the program quits: saved, completed or
	// abandoned.
	Outcome    string
	SetsLogged int
	DayName    string
}

// New creates a session view bound to a loaded session.
func New(ctrl Controller, notifier ports.Notifier, weightStep float64) Model {
	if weightStep <= 0 {
		weightStep = 2.5
	}

	w, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		w, h = 80, 24
	}

	notes := textinput.New()
	notes.Placeholder = "Optional notes"
	notes.CharLimit = 200
	notes.Width = 40

	m := Model{
		ctrl:       ctrl,
		notifier:   notifier,
		weightStep: weightStep,
		marks:      make(map[string]domain.SetMark),
		collapsed:  make(map[domain.Phase]bool),
		rest:       newRestTimer(),
		notesInput: notes,
		width:      w,
		height:     h,
	}
	m.refresh()
	m.autoCollapse()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// refresh pulls the latest session snapshot from the controller.
func (m *Model) refresh() {
	m.snap = m.ctrl.Snapshot()
}

// activePhase returns the phase of the cursor's exercise.
func (m *Model) activePhase() domain.Phase {
	idx := m.snap.Cursor.ExerciseIndex
	if idx < 0 || idx >= len(m.snap.Ordered) {
		return ""
	}
	return m.snap.Ordered[idx].Exercise.Phase
}

// autoCollapse folds every fully completed phase except the one holding
// the cursor, so finished warm-ups stop taking up screen space while
// the phase being worked stays open.
func (m *Model) autoCollapse() {
	active := m.activePhase()
	for _, phase := range domain.Phases(m.snap.Ordered) {
		m.collapsed[phase] = phase != active && domain.IsPhaseCompleted(m.snap.Ordered, phase)
	}
}

// visibleIndexes returns the ordered exercise indexes whose phase is
// not collapsed.
func (m *Model) visibleIndexes() []int {
	var idxs []int
	for i, oe := range m.snap.Ordered {
		if !m.collapsed[oe.Exercise.Phase] {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// moveSelection steps the cursor to the previous or next visible
// exercise.
func (m *Model) moveSelection(delta int) {
	visible := m.visibleIndexes()
	if len(visible) == 0 {
		return
	}

	cur := m.snap.Cursor.ExerciseIndex
	pos := -1
	for i, idx := range visible {
		if idx == cur {
			pos = i
			break
		}
	}

	if pos < 0 {
		pos = 0
	} else {
		pos += delta
		if pos < 0 {
			pos = 0
		}
		if pos >= len(visible) {
			pos = len(visible) - 1
		}
	}

	m.ctrl.SelectExercise(visible[pos])
	m.refresh()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case restTickMsg:
		if m.rest.tick() {
			if m.notifier != nil {
				m.notifier.RestOver(m.rest.exerciseName, m.rest.nextSet)
			}
			return m, nil
		}
		if m.rest.active {
			return m, restTickCmd()
		}
		return m, nil

	case setLoggedMsg:
		return m.handleSetLogged(msg)

	case completedMsg:
		m.saving = false
		m.refresh()
		if msg.err != nil {
			m.errText = errorText(msg.err)
			m.mode = modeSession
			return m, nil
		}
		if m.notifier != nil {
			m.notifier.WorkoutComplete(msg.dayName, msg.setsLogged)
		}
		m.Outcome = OutcomeCompleted
		m.SetsLogged = msg.setsLogged
		m.DayName = msg.dayName
		return m, tea.Quit

	case abandonedMsg:
		m.saving = false
		m.refresh()
		if msg.err != nil {
			m.errText = errorText(msg.err)
			m.mode = modeSession
			return m, nil
		}
		m.Outcome = OutcomeAbandoned
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A surfaced error takes the next keypress to dismiss. The failed
	// action stays armed so it can simply be triggered again.
	if m.errText != "" {
		m.errText = ""
		m.ctrl.ClearError()
		m.refresh()
		return m, nil
	}

	if m.rest.active {
		return m.handleRestKey(msg)
	}

	switch m.mode {
	case modeLeave:
		return m.handleLeaveKey(msg)
	case modeAbandonReason:
		return m.handleReasonKey(msg)
	case modeAbandonNotes:
		return m.handleNotesKey(msg)
	case modeConfirmFinish:
		return m.handleConfirmFinishKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		m.Outcome = OutcomeSaved
		return m, tea.Quit

	case "q", "esc":
		m.mode = modeLeave
		m.leaveCursor = 0
		return m, nil

	case "up", "k":
		m.moveSelection(-1)
		return m, nil

	case "down", "j":
		m.moveSelection(1)
		return m, nil

	case "left", "h":
		m.ctrl.AdjustReps(-1)
		m.refresh()
		m.syncMarkDrafts()
		return m, nil

	case "right", "l":
		m.ctrl.AdjustReps(1)
		m.refresh()
		m.syncMarkDrafts()
		return m, nil

	case "-", "_":
		m.ctrl.AdjustWeight(-m.weightStep)
		m.refresh()
		m.syncMarkDrafts()
		return m, nil

	case "+", "=":
		m.ctrl.AdjustWeight(m.weightStep)
		m.refresh()
		m.syncMarkDrafts()
		return m, nil

	case "c":
		phase := m.activePhase()
		if phase != "" {
			m.collapsed[phase] = !m.collapsed[phase]
		}
		return m, nil

	case "f":
		m.mode = modeConfirmFinish
		return m, nil

	case "enter", " ":
		return m, m.handleSetTap()
	}

	return m, nil
}

func (m Model) handleRestKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "esc", "enter", " ":
		m.rest.skip()
	case "+", "=":
		m.rest.extend(30)
	case "ctrl+c":
		m.Outcome = OutcomeSaved
		return m, tea.Quit
	}
	return m, nil
}

// handleSetTap is the two-tap set interaction: the first tap arms a
// pending set on the selected exercise, the second commits it to the
// server.
func (m *Model) handleSetTap() tea.Cmd {
	if m.saving || m.snap.Busy {
		return nil
	}

	idx := m.snap.Cursor.ExerciseIndex
	if idx < 0 || idx >= len(m.snap.Ordered) {
		return nil
	}
	oe := m.snap.Ordered[idx]
	if oe.Progress.IsCompleted {
		return nil
	}

	id := oe.Exercise.ID
	if m.marks[id].Kind == domain.SetMarkNone {
		m.marks[id] = domain.SetMark{
			Kind:        domain.SetMarkPending,
			SetNumber:   m.snap.Cursor.SetNumber,
			DraftReps:   m.snap.Cursor.Reps,
			DraftWeight: m.snap.Cursor.WeightKg,
		}
		return nil
	}

	req := domain.SetLogRequest{
		DayExerciseID: id,
		SetNumber:     m.snap.Cursor.SetNumber,
		RepsCompleted: m.snap.Cursor.Reps,
	}
	if w := m.snap.Cursor.WeightKg; w > 0 {
		req.WeightKg = &w
	}

	rest := domain.DefaultsFor(oe.Exercise, oe.Progress).RestSeconds
	m.saving = true
	return logSetCmd(m.ctrl, oe.Exercise.ExerciseName, id, oe.Exercise.Sets, rest, req)
}

func (m Model) handleSetLogged(msg setLoggedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	m.refresh()

	if msg.err != nil {
		// The pending mark survives so the same tap retries the set.
		m.errText = errorText(msg.err)
		return m, nil
	}

	delete(m.marks, msg.exerciseID)

	if msg.setNumber < msg.totalSets {
		cmd := m.rest.start(msg.restSeconds, msg.exerciseName, msg.setNumber+1)
		m.autoCollapse()
		return m, cmd
	}

	// Final set of the exercise: no rest, move on.
	m.ctrl.AdvanceExercise()
	m.refresh()
	m.autoCollapse()
	return m, nil
}

// syncMarkDrafts mirrors the cursor's working values into an armed
// pending mark so the card shows what will be committed.
func (m *Model) syncMarkDrafts() {
	idx := m.snap.Cursor.ExerciseIndex
	if idx < 0 || idx >= len(m.snap.Ordered) {
		return
	}
	id := m.snap.Ordered[idx].Exercise.ID
	mark, ok := m.marks[id]
	if !ok || mark.Kind != domain.SetMarkPending {
		return
	}
	mark.DraftReps = m.snap.Cursor.Reps
	mark.DraftWeight = m.snap.Cursor.WeightKg
	m.marks[id] = mark
}

func logSetCmd(ctrl Controller, name, id string, totalSets, restSeconds int, req domain.SetLogRequest) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.LogSet(context.Background(), req)
		return setLoggedMsg{
			exerciseID:   id,
			exerciseName: name,
			setNumber:    req.SetNumber,
			totalSets:    totalSets,
			restSeconds:  restSeconds,
			err:          err,
		}
	}
}

func completeCmd(ctrl Controller, dayName string, setsLogged int) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.CompleteWorkout(context.Background())
		return completedMsg{dayName: dayName, setsLogged: setsLogged, err: err}
	}
}

func abandonCmd(ctrl Controller, reason domain.AbandonReason, notes string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.AbandonWorkout(context.Background(), reason, notes)
		return abandonedMsg{err: err}
	}
}

// errorText maps session errors to short user-facing messages.
func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrSetOutOfOrder):
		return "Sets must be logged in order."
	case errors.Is(err, domain.ErrWorkoutConflict):
		return "This workout was changed elsewhere."
	case errors.Is(err, domain.ErrWorkoutFinished):
		return "This workout is already finished."
	case errors.Is(err, domain.ErrOperationInFlight):
		return "Still saving, hold on."
	case errors.Is(err, domain.ErrNetwork):
		return "Network error. Check your connection and try again."
	default:
		return err.Error()
	}
}

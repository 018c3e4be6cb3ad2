package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
)

// leaveOptions are the choices offered when leaving mid-workout.
// Leaving without a terminal transition keeps the workout in progress
// on the server, so it can be resumed later.
var leaveOptions = []string{
	"Keep training",
	"Save and exit",
	"Abandon workout",
}

func (m Model) handleLeaveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeSession
	case "up", "k":
		if m.leaveCursor > 0 {
			m.leaveCursor--
		}
	case "down", "j":
		if m.leaveCursor < len(leaveOptions)-1 {
			m.leaveCursor++
		}
	case "enter", " ":
		switch m.leaveCursor {
		case 0:
			m.mode = modeSession
		case 1:
			m.Outcome = OutcomeSaved
			return m, tea.Quit
		case 2:
			m.mode = modeAbandonReason
			m.reasonCursor = 0
		}
	case "ctrl+c":
		m.Outcome = OutcomeSaved
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleReasonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	reasons := domain.AbandonReasons()
	switch msg.String() {
	case "esc", "q":
		m.mode = modeLeave
	case "up", "k":
		if m.reasonCursor > 0 {
			m.reasonCursor--
		}
	case "down", "j":
		if m.reasonCursor < len(reasons)-1 {
			m.reasonCursor++
		}
	case "enter", " ":
		m.mode = modeAbandonNotes
		m.notesInput.SetValue("")
		m.notesInput.Focus()
	case "ctrl+c":
		m.Outcome = OutcomeSaved
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleNotesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.notesInput.Blur()
		m.mode = modeAbandonReason
		return m, nil
	case "enter":
		if m.saving {
			return m, nil
		}
		reasons := domain.AbandonReasons()
		reason := reasons[m.reasonCursor]
		notes := strings.TrimSpace(m.notesInput.Value())
		m.notesInput.Blur()
		m.saving = true
		return m, abandonCmd(m.ctrl, reason, notes)
	case "ctrl+c":
		m.Outcome = OutcomeSaved
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.notesInput, cmd = m.notesInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmFinishKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if m.saving {
			return m, nil
		}
		dayName := ""
		if m.snap.State != nil {
			dayName = m.snap.State.TrainingDayName
		}
		m.saving = true
		return m, completeCmd(m.ctrl, dayName, m.ctrl.SetsLogged())
	case "n", "esc", "q":
		m.mode = modeSession
	case "ctrl+c":
		m.Outcome = OutcomeSaved
		return m, tea.Quit
	}
	return m, nil
}

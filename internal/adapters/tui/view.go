package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fitpilot/fitpilot-cli/internal/domain"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.snap.State == nil {
		return ""
	}

	if m.rest.active {
		return m.centered(m.rest.view())
	}

	switch m.mode {
	case modeLeave:
		return m.centered(m.leaveView())
	case modeAbandonReason:
		return m.centered(m.reasonView())
	case modeAbandonNotes:
		return m.centered(m.notesView())
	case modeConfirmFinish:
		return m.centered(m.confirmFinishView())
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	var lastPhase domain.Phase
	for i, oe := range m.snap.Ordered {
		phase := oe.Exercise.Phase
		if i == 0 || phase != lastPhase {
			lastPhase = phase
			b.WriteString(m.phaseHeaderView(phase))
			b.WriteString("\n")
		}
		if m.collapsed[phase] {
			continue
		}
		b.WriteString(m.cardView(i, oe))
		b.WriteString("\n")
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + m.errText))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("press any key to dismiss"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select · enter set · ←/→ reps · -/+ weight · c fold · f finish · q leave"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) headerView() string {
	st := m.snap.State
	title := titleStyle.Render(st.TrainingDayName)
	if st.TrainingDayFocus != "" {
		title += "  " + focusStyle.Render(st.TrainingDayFocus)
	}

	progress := fmt.Sprintf("%d/%d exercises done", st.CompletedExercises, st.TotalExercises)
	if m.saving {
		progress += pendingStyle.Render("  saving…")
	}

	return title + "\n" + focusStyle.Render(progress) + "\n"
}

func (m Model) phaseHeaderView(phase domain.Phase) string {
	done := domain.IsPhaseCompleted(m.snap.Ordered, phase)
	label := strings.ToUpper(phase.Label())

	style := phaseStyle
	suffix := ""
	if done {
		style = phaseDoneStyle
		suffix = " ✓"
	}
	if m.collapsed[phase] {
		suffix += " ▸"
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	line := label + suffix + " "
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat("─", pad)
	}
	return style.Render("── " + line)
}

// cardView renders one exercise card. The card targeted by the cursor
// carries the input controls.
func (m Model) cardView(index int, oe domain.OrderedExercise) string {
	active := index == m.snap.Cursor.ExerciseIndex
	ex := oe.Exercise
	p := oe.Progress

	name := fmt.Sprintf("%d/%d  %s", oe.IndexInPhase, oe.TotalInPhase, ex.ExerciseName)
	if p.IsCompleted {
		name = doneMarkStyle.Render("✓ ") + name
	}

	meta := fmt.Sprintf("Set %d/%d · %s reps · %s · rest %ds",
		displaySetNumber(oe, active, m.snap.Cursor.SetNumber),
		ex.Sets, ex.RepRange(), ex.EffortLabel(), int(ex.RestDuration().Seconds()))

	dots := setDots(p.CompletedSets, ex.Sets)

	lines := []string{name, focusStyle.Render(meta), dots}

	if ex.Notes != "" {
		lines = append(lines, helpStyle.Render(ex.Notes))
	}

	if active && !p.IsCompleted {
		lines = append(lines, m.controlsView(ex.ID))
	}

	style := cardStyle
	if active {
		style = activeCardStyle
	}
	width := m.width - 4
	if width > 60 {
		width = 60
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// controlsView renders the working reps/weight and the two-tap action
// label for the active card.
func (m Model) controlsView(exerciseID string) string {
	c := m.snap.Cursor

	values := fmt.Sprintf("reps ‹%d›", c.Reps)
	if c.WeightKg > 0 {
		values += fmt.Sprintf("   weight ‹%.1f kg›", c.WeightKg)
	} else {
		values += "   weight ‹bodyweight›"
	}

	var action string
	switch {
	case m.saving:
		action = pendingStyle.Render("saving…")
	case m.marks[exerciseID].Kind == domain.SetMarkPending:
		action = pendingStyle.Render(fmt.Sprintf("[ log set %d ]", c.SetNumber))
	default:
		action = selectedItemStyle.Render(fmt.Sprintf("[ start set %d ]", c.SetNumber))
	}

	return values + "\n" + action
}

// displaySetNumber picks the set counter shown on a card: completed
// exercises pin to the total, the active card tracks the cursor, and
// idle cards show the next set to do.
func displaySetNumber(oe domain.OrderedExercise, active bool, cursorSet int) int {
	switch {
	case oe.Progress.IsCompleted:
		return oe.Exercise.Sets
	case active:
		return cursorSet
	default:
		n := oe.Progress.CompletedSets + 1
		if n > oe.Exercise.Sets {
			n = oe.Exercise.Sets
		}
		return n
	}
}

func setDots(completed, total int) string {
	var b strings.Builder
	for i := 0; i < total; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		if i < completed {
			b.WriteString(doneMarkStyle.Render("●"))
		} else {
			b.WriteString(focusStyle.Render("○"))
		}
	}
	return b.String()
}

func (m Model) leaveView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Leave workout?"))
	b.WriteString("\n\n")
	for i, opt := range leaveOptions {
		if i == m.leaveCursor {
			b.WriteString(selectedItemStyle.Render("▸ " + opt))
		} else {
			b.WriteString("  " + opt)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter choose · esc back"))
	return overlayStyle.Render(b.String())
}

func (m Model) reasonView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Why are you stopping?"))
	b.WriteString("\n\n")
	for i, reason := range domain.AbandonReasons() {
		if i == m.reasonCursor {
			b.WriteString(selectedItemStyle.Render("▸ " + reason.Label()))
		} else {
			b.WriteString("  " + reason.Label())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter choose · esc back"))
	return overlayStyle.Render(b.String())
}

func (m Model) notesView() string {
	reasons := domain.AbandonReasons()
	reason := reasons[m.reasonCursor]

	var b strings.Builder
	b.WriteString(titleStyle.Render("Abandon: " + reason.Label()))
	b.WriteString("\n\n")
	b.WriteString(m.notesInput.View())
	b.WriteString("\n\n")
	if m.saving {
		b.WriteString(pendingStyle.Render("saving…"))
	} else {
		b.WriteString(helpStyle.Render("enter confirm · esc back"))
	}
	return overlayStyle.Render(b.String())
}

func (m Model) confirmFinishView() string {
	sets := m.ctrl.SetsLogged()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Finish workout?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%d sets logged.", sets))
	b.WriteString("\n\n")
	if m.saving {
		b.WriteString(pendingStyle.Render("saving…"))
	} else {
		b.WriteString(helpStyle.Render("y finish · n back"))
	}
	return overlayStyle.Render(b.String())
}

func (m Model) centered(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// restTickMsg is sent once per second while the rest timer runs.
type restTickMsg time.Time

// restTimer is the ephemeral between-sets countdown. Entirely local:
// it never blocks set logging and is not persisted, so a killed app
// simply loses the countdown.
type restTimer struct {
	active       bool
	remaining    int
	initial      int
	exerciseName string
	nextSet      int
	bar          progress.Model
}

func newRestTimer() restTimer {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 36
	return restTimer{bar: bar}
}

// start arms the timer for the given rest interval.
func (t *restTimer) start(seconds int, exerciseName string, nextSet int) tea.Cmd {
	t.active = true
	t.remaining = seconds
	t.initial = seconds
	t.exerciseName = exerciseName
	t.nextSet = nextSet
	return restTickCmd()
}

// tick decrements the countdown. Returns true when it reaches zero.
func (t *restTimer) tick() bool {
	if !t.active {
		return false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.active = false
		return true
	}
	return false
}

// extend adds seconds to a running countdown.
func (t *restTimer) extend(seconds int) {
	if t.active {
		t.remaining += seconds
	}
}

// skip dismisses the timer without waiting.
func (t *restTimer) skip() {
	t.active = false
}

// percent returns the elapsed fraction for the progress bar.
func (t *restTimer) percent() float64 {
	if t.initial <= 0 {
		return 1
	}
	return 1 - float64(t.remaining)/float64(t.initial)
}

func (t *restTimer) view() string {
	timer := fmt.Sprintf("%d:%02d", t.remaining/60, t.remaining%60)
	body := titleStyle.Render("Rest") + "\n\n" +
		lipgloss.NewStyle().Bold(true).Render(timer) + "\n" +
		t.bar.ViewAs(t.percent()) + "\n\n" +
		focusStyle.Render(fmt.Sprintf("Next: %s, set %d", t.exerciseName, t.nextSet)) + "\n" +
		helpStyle.Render("s skip · + add 30s")
	return overlayStyle.Render(body)
}

func restTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return restTickMsg(t)
	})
}

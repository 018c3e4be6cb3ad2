// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/fitpilot/fitpilot-cli/internal/config"
	"github.com/fitpilot/fitpilot-cli/internal/ports"
)

// Notifier handles desktop notifications for session milestones.
type Notifier struct {
	cfg *config.NotificationConfig
}

// Ensure Notifier implements the port.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// RestOver displays a notification when a rest interval reaches zero.
func (n *Notifier) RestOver(exerciseName string, nextSet int) error {
	if n.cfg == nil || !n.cfg.Enabled {
		return nil
	}

	title := "Rest over"
	message := fmt.Sprintf("Back to %s, set %d.", exerciseName, nextSet)
	return beeep.Notify(title, message, "")
}

// WorkoutComplete displays a notification after the workout is completed.
func (n *Notifier) WorkoutComplete(trainingDayName string, setsLogged int) error {
	if n.cfg == nil || !n.cfg.Enabled {
		return nil
	}

	title := "Workout complete"
	message := fmt.Sprintf("%s done. %d sets logged.", trainingDayName, setsLogged)
	return beeep.Notify(title, message, "")
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

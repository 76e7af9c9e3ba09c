package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoController is returned when the runner has nothing to drive.
	ErrNoController = errors.New("tui: controller is required")
)

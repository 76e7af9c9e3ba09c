package wizard

import (
	"errors"
	"strings"
)

var (
	// ErrNoSteps is returned when a machine is built from an empty step list.
	ErrNoSteps = errors.New("wizard: no steps")
	// ErrInvalidStep flags a step without an ID or with a duplicate one.
	ErrInvalidStep = errors.New("wizard: invalid step")
	// ErrNoStepBuilder is returned by Build when the config has no builder.
	ErrNoStepBuilder = errors.New("wizard: step builder is required")
	// ErrClosed is returned by controller operations after Close.
	ErrClosed = errors.New("wizard: controller closed")
	// ErrNotSubmittable is returned by Controller.Submit when the current
	// state cannot enter the submitting phase.
	ErrNotSubmittable = errors.New("wizard: state is not submittable")
)

// SubmissionError carries the message an endpoint returned with a rejected
// submission. Submitters return it so the controller can surface the text.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return "wizard: submission rejected: " + e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return "wizard: submission rejected: " + e.Message
	case e.Err != nil:
		return "wizard: submission failed: " + e.Err.Error()
	default:
		return "wizard: submission failed"
	}
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// UserMessage extracts the endpoint-provided message from err, or "" when
// the failure carries none (network errors, timeouts).
func UserMessage(err error) string {
	var subErr *SubmissionError
	if errors.As(err, &subErr) && subErr != nil {
		return strings.TrimSpace(subErr.Message)
	}
	return ""
}

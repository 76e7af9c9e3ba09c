package wizard

import "sort"

// Phase identifies where the wizard is in its lifecycle.
type Phase string

const (
	PhaseHero       Phase = "hero"
	PhaseStep       Phase = "step"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
)

// SubmissionStatus tracks the outcome of the last submission attempt.
type SubmissionStatus string

const (
	StatusIdle       SubmissionStatus = "idle"
	StatusSubmitting SubmissionStatus = "submitting"
	StatusSuccess    SubmissionStatus = "success"
	StatusError      SubmissionStatus = "error"
)

// State is an immutable snapshot of one wizard run. A failed submission
// returns to PhaseStep on the last index with StatusError and Message set.
type State struct {
	Phase            Phase            `json:"phase"`
	CurrentStepIndex int              `json:"currentStepIndex"`
	CompletedSteps   []int            `json:"completedSteps,omitempty"`
	FormData         FormData         `json:"formData"`
	SubmissionStatus SubmissionStatus `json:"submissionStatus"`
	Message          string           `json:"message,omitempty"`
	ResponseID       string           `json:"responseId,omitempty"`
	ShowcaseVisible  bool             `json:"showcaseVisible,omitempty"`
}

// IsCompleted reports whether step i has been passed with a valid answer.
func (s State) IsCompleted(i int) bool {
	idx := sort.SearchInts(s.CompletedSteps, i)
	return idx < len(s.CompletedSteps) && s.CompletedSteps[idx] == i
}

// Failed reports whether the last submission attempt was rejected.
func (s State) Failed() bool {
	return s.SubmissionStatus == StatusError
}

func (s State) clone() State {
	out := s
	out.CompletedSteps = append([]int(nil), s.CompletedSteps...)
	out.FormData = s.FormData.Clone()
	return out
}

func (s *State) markCompleted(i int) {
	if s.IsCompleted(i) {
		return
	}
	s.CompletedSteps = append(s.CompletedSteps, i)
	sort.Ints(s.CompletedSteps)
}

package wizard

// Action is an input to Machine.Reduce.
type Action interface {
	action()
}

// Start leaves the hero screen for the first step.
type Start struct{}

// Answer records the value of a single-valued step. Choice steps only accept
// one of their declared options.
type Answer struct {
	StepID string
	Value  string
}

// Select replaces the full selection of a checkbox step.
type Select struct {
	StepID string
	Values []string
}

// Toggle flips one option of a checkbox step.
type Toggle struct {
	StepID string
	Option string
}

// AnswerField records one sub-field of a composite step.
type AnswerField struct {
	StepID string
	Field  string
	Value  string
}

// Next advances past a valid step; on the last step it submits.
type Next struct{}

// Back returns to the previous step, or to the hero from the first one.
type Back struct{}

// Submit enters the submitting phase from a valid last step.
type Submit struct{}

// SubmitSucceeded reports the endpoint accepted the submission.
type SubmitSucceeded struct {
	ResponseID string
}

// SubmitFailed reports a rejected or failed submission. An empty Message
// falls back to the configured generic message.
type SubmitFailed struct {
	Message string
}

// ResetElapsed fires after the post-success delay of the ResetToHero policy.
type ResetElapsed struct{}

// Exit abandons the run and returns to the hero with empty answers.
type Exit struct{}

func (Start) action()           {}
func (Answer) action()          {}
func (Select) action()          {}
func (Toggle) action()          {}
func (AnswerField) action()     {}
func (Next) action()            {}
func (Back) action()            {}
func (Submit) action()          {}
func (SubmitSucceeded) action() {}
func (SubmitFailed) action()    {}
func (ResetElapsed) action()    {}
func (Exit) action()            {}

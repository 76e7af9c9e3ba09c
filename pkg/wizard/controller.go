package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Submitter delivers a submission to the endpoint. Implementations return a
// *SubmissionError when the endpoint rejects the payload.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (Result, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, sub Submission) (Result, error)

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, sub Submission) (Result, error) {
	return f(ctx, sub)
}

// Listener observes state changes. It runs outside the controller lock.
type Listener func(State)

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAfterFunc replaces time.AfterFunc for scheduling the post-success
// reset. Tests use it to fire the reset deterministically.
func WithAfterFunc(fn func(time.Duration, func()) Stopper) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.afterFunc = fn
		}
	}
}

// Stopper cancels a scheduled callback.
type Stopper interface {
	Stop() bool
}

// Controller runs a Machine interactively. All state changes go through
// Dispatch or Submit; async results are applied only while the lifetime
// context is alive and only for the submission that produced them.
type Controller struct {
	machine   *Machine
	submitter Submitter
	logger    *zap.Logger
	afterFunc func(time.Duration, func()) Stopper

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	state      State
	generation uint64
	reset      Stopper
	listeners  map[int]Listener
	nextID     int
}

// NewController binds a controller to ctx. Cancelling ctx or calling Close
// disposes it.
func NewController(ctx context.Context, machine *Machine, submitter Submitter, opts ...ControllerOption) (*Controller, error) {
	if ctx == nil {
		return nil, errors.New("wizard: context is required")
	}
	if machine == nil {
		return nil, errors.New("wizard: machine is required")
	}
	if submitter == nil {
		return nil, errors.New("wizard: submitter is required")
	}
	lifetime, cancel := context.WithCancel(ctx)
	c := &Controller{
		machine:   machine,
		submitter: submitter,
		logger:    zap.NewNop(),
		afterFunc: func(d time.Duration, fn func()) Stopper { return time.AfterFunc(d, fn) },
		ctx:       lifetime,
		cancel:    cancel,
		state:     machine.Initial(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Machine returns the underlying machine.
func (c *Controller) Machine() *Machine {
	return c.machine
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn for state changes and returns its cancel func.
func (c *Controller) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Dispatch applies a synchronous action. Next on the last step is routed to
// Submit so the async call starts.
func (c *Controller) Dispatch(action Action) State {
	switch action.(type) {
	case Submit:
		_ = c.Submit()
		return c.State()
	case Next:
		s := c.State()
		if s.Phase == PhaseStep && s.CurrentStepIndex == c.machine.Len()-1 {
			_ = c.Submit()
			return c.State()
		}
	}

	c.mu.Lock()
	if c.ctx.Err() != nil {
		s := c.state.clone()
		c.mu.Unlock()
		return s
	}
	s, notify := c.applyLocked(action)
	c.mu.Unlock()
	notify()
	return s
}

// Submit enters the submitting phase and sends the payload. It returns
// ErrNotSubmittable when the current state is not a valid last step; a
// failed delivery is reported through the state, not the return value.
func (c *Controller) Submit() error {
	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Phase == PhaseSubmitting {
		c.mu.Unlock()
		return ErrNotSubmittable
	}
	s, notify := c.applyLocked(Submit{})
	if s.Phase != PhaseSubmitting {
		c.mu.Unlock()
		return ErrNotSubmittable
	}
	c.generation++
	gen := c.generation
	payload := c.machine.Submission(s)
	c.wg.Add(1)
	c.mu.Unlock()

	notify()
	c.logger.Debug("submitting wizard",
		zap.String("endpoint", payload.Endpoint),
		zap.Int("responses", len(payload.Responses)),
	)
	go c.deliver(gen, payload)
	return nil
}

// Wait blocks until in-flight submissions finish.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close disposes the controller: pending results and timers are dropped.
func (c *Controller) Close() {
	c.cancel()
	c.mu.Lock()
	if c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
	c.mu.Unlock()
}

func (c *Controller) deliver(gen uint64, payload Submission) {
	defer c.wg.Done()

	result, err := c.submitter.Submit(c.ctx, payload)

	c.mu.Lock()
	if c.ctx.Err() != nil || gen != c.generation || c.state.Phase != PhaseSubmitting {
		c.mu.Unlock()
		c.logger.Debug("discarding stale submission result", zap.Uint64("generation", gen))
		return
	}
	var action Action
	if err != nil {
		c.logger.Warn("wizard submission failed", zap.Error(err))
		action = SubmitFailed{Message: UserMessage(err)}
	} else {
		c.logger.Info("wizard submission accepted", zap.String("response_id", result.ResponseID))
		action = SubmitSucceeded{ResponseID: result.ResponseID}
	}
	_, notify := c.applyLocked(action)
	c.mu.Unlock()
	notify()
}

// applyLocked reduces action into the current state and schedules side
// effects. The returned func notifies listeners and must run unlocked.
func (c *Controller) applyLocked(action Action) (State, func()) {
	prev := c.state
	next := c.machine.Reduce(prev, action)
	c.state = next

	if prev.Phase == PhaseSuccess && next.Phase != PhaseSuccess && c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
	if prev.Phase != PhaseSuccess && next.Phase == PhaseSuccess && c.machine.cfg.CompletionPolicy == ResetToHero {
		gen := c.generation
		c.reset = c.afterFunc(c.machine.cfg.ResetDelay, func() { c.resetElapsed(gen) })
	}

	snapshot := next.clone()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	return snapshot, func() {
		for _, fn := range listeners {
			fn(snapshot)
		}
	}
}

func (c *Controller) resetElapsed(gen uint64) {
	c.mu.Lock()
	if c.ctx.Err() != nil || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.reset = nil
	_, notify := c.applyLocked(ResetElapsed{})
	c.mu.Unlock()
	notify()
}

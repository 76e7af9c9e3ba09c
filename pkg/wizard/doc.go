// Package wizard implements the multi-step lead-capture flow as an explicit
// state machine.
//
// The core is pure: a Machine owns the immutable step list and Reduce maps a
// State plus an Action to the next State without side effects. Controller
// wraps a Machine for interactive use, serialising dispatches, running the
// single in-flight submission against a Submitter and scheduling the reset
// timer of the ResetToHero completion policy. Results that arrive after the
// controller's lifetime context ends are dropped.
//
//	machine, _ := wizard.NewMachine(steps, wizard.NewConfig())
//	state := machine.Initial()
//	state = machine.Reduce(state, wizard.Start{})
//	state = machine.Reduce(state, wizard.Answer{StepID: "model", Value: "A"})
//	state = machine.Reduce(state, wizard.Next{})
package wizard

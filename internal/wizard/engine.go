// README: Step-transition engine; owns the current step and arbitrates movement.
package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStep = errors.New("unknown step")
	ErrJumpForward = errors.New("cannot jump to a step that has not been visited")
	ErrNoNextStep  = errors.New("already at the last step")
	ErrValidation  = errors.New("step validation failed")
)

// Validator returns the errors for a step; an empty result lets the engine advance.
type Validator func(step StepID) FieldErrors

// Engine is not safe for concurrent use; the owning session serialises access.
type Engine struct {
	steps   []StepDefinition
	index   map[StepID]int
	current int
	// highest index reached so far; earlier steps are all visited because the
	// engine only advances one step at a time.
	reached int
}

func NewEngine(steps []StepDefinition, start StepID) (*Engine, error) {
	if len(steps) == 0 {
		panic("wizard: empty step sequence")
	}
	index := make(map[StepID]int, len(steps))
	for i, s := range steps {
		if _, dup := index[s.ID]; dup {
			panic(fmt.Sprintf("wizard: duplicate step %q", s.ID))
		}
		index[s.ID] = i
	}
	cp := make([]StepDefinition, len(steps))
	copy(cp, steps)
	e := &Engine{steps: cp, index: index}
	if start != "" {
		i, ok := index[start]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStep, start)
		}
		e.current = i
		e.reached = i
	}
	return e, nil
}

func (e *Engine) Current() StepID { return e.steps[e.current].ID }

func (e *Engine) Index() int { return e.current }

func (e *Engine) IsFirst() bool { return e.current == 0 }

func (e *Engine) IsLast() bool { return e.current == len(e.steps)-1 }

// Steps returns a copy of the step sequence.
func (e *Engine) Steps() []StepDefinition {
	cp := make([]StepDefinition, len(e.steps))
	copy(cp, e.steps)
	return cp
}

// Visited reports whether id has been reached in this session.
func (e *Engine) Visited(id StepID) bool {
	i, ok := e.index[id]
	return ok && i <= e.reached
}

// Next validates the active step and advances when it passes. On failure the
// engine does not move and the returned errors are non-empty.
func (e *Engine) Next(validate Validator) (FieldErrors, error) {
	if validate != nil {
		if errs := validate(e.Current()); len(errs) > 0 {
			return errs, ErrValidation
		}
	}
	if e.IsLast() {
		return nil, ErrNoNextStep
	}
	e.current++
	if e.current > e.reached {
		e.reached = e.current
	}
	return nil, nil
}

// Previous moves back one step regardless of form validity. It returns false
// when already at the first step.
func (e *Engine) Previous() bool {
	if e.current == 0 {
		return false
	}
	e.current--
	return true
}

// JumpTo moves to an earlier, already visited step (used by review "Edit").
func (e *Engine) JumpTo(id StepID) error {
	i, ok := e.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	if i > e.current || i > e.reached {
		return ErrJumpForward
	}
	e.current = i
	return nil
}

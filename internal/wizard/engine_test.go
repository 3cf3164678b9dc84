// README: Step engine tests (advance, retreat, jump rules).
package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSteps = []StepDefinition{
	{ID: "a", Title: "A"},
	{ID: "b", Title: "B"},
	{ID: "c", Title: "C"},
}

func pass(StepID) FieldErrors { return nil }

func TestNewEngine_UnknownStart(t *testing.T) {
	_, err := NewEngine(testSteps, "zzz")
	require.ErrorIs(t, err, ErrUnknownStep)
}

func TestNewEngine_PanicsOnDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = NewEngine([]StepDefinition{{ID: "a"}, {ID: "a"}}, "")
	})
	assert.Panics(t, func() { _, _ = NewEngine(nil, "") })
}

func TestNext_BlockedByValidation(t *testing.T) {
	e, err := NewEngine(testSteps, "")
	require.NoError(t, err)

	errs, err := e.Next(func(StepID) FieldErrors { return FieldErrors{"x": "bad"} })
	require.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "bad", errs["x"])
	assert.Equal(t, StepID("a"), e.Current())
}

func TestNext_ValidatesActiveStep(t *testing.T) {
	e, _ := NewEngine(testSteps, "")
	var seen []StepID
	v := func(s StepID) FieldErrors { seen = append(seen, s); return nil }
	_, _ = e.Next(v)
	_, _ = e.Next(v)
	assert.Equal(t, []StepID{"a", "b"}, seen)
	assert.True(t, e.IsLast())

	_, err := e.Next(v)
	assert.ErrorIs(t, err, ErrNoNextStep)
	assert.Equal(t, StepID("c"), e.Current())
}

func TestPrevious_Unconditional(t *testing.T) {
	e, _ := NewEngine(testSteps, "c")
	assert.True(t, e.Previous())
	assert.Equal(t, StepID("b"), e.Current())
	assert.True(t, e.Previous())
	assert.False(t, e.Previous())
	assert.Equal(t, StepID("a"), e.Current())
}

func TestJumpTo(t *testing.T) {
	e, _ := NewEngine(testSteps, "")
	_, _ = e.Next(pass)

	assert.ErrorIs(t, e.JumpTo("c"), ErrJumpForward)
	assert.ErrorIs(t, e.JumpTo("nope"), ErrUnknownStep)
	require.NoError(t, e.JumpTo("a"))
	assert.Equal(t, StepID("a"), e.Current())

	// "b" was visited but is ahead of the current step.
	assert.ErrorIs(t, e.JumpTo("b"), ErrJumpForward)
	assert.True(t, e.Visited("b"))
	assert.False(t, e.Visited("c"))
}

func TestFieldErrors_Clear(t *testing.T) {
	errs := FieldErrors{"package.description": "x", "package.category": "y", "pickup.address": "z", "orderType": "w"}
	errs.ClearField("package", "description")
	errs.ClearField("", "orderType")
	assert.Equal(t, FieldErrors{"package.category": "y", "pickup.address": "z"}, errs)

	errs.ClearPrefix("package")
	assert.Equal(t, FieldErrors{"pickup.address": "z"}, errs)
}

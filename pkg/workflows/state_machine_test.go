package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	sm := NewStateMachine(map[string][]string{
		"A": {"B", "C"},
		"B": {"C"},
		"C": {},
	})

	assert.True(t, sm.CanTransition("A", "B"))
	assert.True(t, sm.CanTransition("A", "C"))
	assert.False(t, sm.CanTransition("B", "A"))
	assert.False(t, sm.CanTransition("C", "A"))
	assert.False(t, sm.CanTransition("unknown", "A"))
}

func TestGetAllowedTransitions(t *testing.T) {
	sm := NewStateMachine(map[string][]string{
		"A": {"B"},
		"B": {},
	})

	assert.Equal(t, []string{"B"}, sm.GetAllowedTransitions("A"))
	assert.Empty(t, sm.GetAllowedTransitions("B"))
	assert.Empty(t, sm.GetAllowedTransitions("unknown"))
}

func TestIsTerminal(t *testing.T) {
	sm := NewStateMachine(map[string][]string{
		"A": {"B"},
		"B": {},
	})

	assert.False(t, sm.IsTerminal("A"))
	assert.True(t, sm.IsTerminal("B"))
}

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetectTimeControlModes(t *testing.T) {
	assert.Equal(t, TimeControlNone, DetectTimeControl(0, 0, 0).Kind)
	assert.Equal(t, TimeControlFixedPerMove, DetectTimeControl(0, 5000, 0).Kind)
	assert.Equal(t, TimeControlSuddenDeath, DetectTimeControl(120000, 0, 0).Kind)
	assert.Equal(t, TimeControlFischer, DetectTimeControl(120000, 2000, 0).Kind)
	assert.Equal(t, TimeControlByoyomi, DetectTimeControl(120000, 30000, 5).Kind)
}

func TestTimeManagerFixedPerMove(t *testing.T) {
	tc := DetectTimeControl(0, 50, 0)
	tm := NewTimeManager(tc)
	tm.StartMove(40)
	assert.Equal(t, 50*time.Millisecond, tm.budget)
	assert.False(t, tm.ShouldStopIteration())
}

func TestTimeManagerSuddenDeathAllocatesFraction(t *testing.T) {
	tc := DetectTimeControl(100000, 0, 0)
	tm := NewTimeManager(tc)
	tm.StartMove(40)
	assert.Greater(t, tm.budget, time.Duration(0))
	assert.LessOrEqual(t, tm.budget, time.Duration(100000)*time.Millisecond)
}

func TestTimeManagerExtendRaisesBudget(t *testing.T) {
	tc := DetectTimeControl(100000, 0, 0)
	tm := NewTimeManager(tc)
	tm.StartMove(40)
	before := tm.budget
	tm.TryExtendTime(true, 0)
	assert.GreaterOrEqual(t, tm.budget, before)
	assert.LessOrEqual(t, tm.budget, tm.maxBudget)
}

func TestTimeManagerEndMoveFischerAddsIncrement(t *testing.T) {
	tc := DetectTimeControl(100000, 2000, 0)
	tm := NewTimeManager(tc)
	tm.StartMove(40)
	before := tm.remainingMs
	ok := tm.EndMove()
	assert.True(t, ok)
	assert.Greater(t, tm.remainingMs, before-tm.budget.Milliseconds())
}

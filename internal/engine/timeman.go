// Package engine wires the search package into a public library API:
// SearchOptions/SearchRunOptions/Search, a worker pool driving the
// midgame/endgame search in parallel, and a time manager allocating a
// per-move budget from whichever time control is in effect: sudden
// death, byo-yomi, Fischer, fixed-per-move, or no clock at all.
package engine

import "time"

// TimeControlKind identifies which of the five auto-detected time
// control modes is in effect.
type TimeControlKind uint8

const (
	// TimeControlNone means no clock: search runs to a fixed depth.
	TimeControlNone TimeControlKind = iota
	// TimeControlFixedPerMove allocates exactly PeriodMs per move.
	TimeControlFixedPerMove
	// TimeControlFischer adds IncrementMs after every move.
	TimeControlFischer
	// TimeControlByoyomi resets a PeriodMs allowance every Stones
	// moves once MainMs is exhausted.
	TimeControlByoyomi
	// TimeControlSuddenDeath divides MainMs with no increment.
	TimeControlSuddenDeath
)

// TimeControl describes the clock in effect, derived from the triple
// (main, period, stones).
type TimeControl struct {
	Kind        TimeControlKind
	MainMs      int64
	PeriodMs    int64
	Stones      int
	IncrementMs int64
}

// DetectTimeControl classifies (main, period, stones) into one of the
// five time control modes. For Fischer mode, period doubles as the
// per-move increment.
func DetectTimeControl(mainMs, periodMs int64, stones int) TimeControl {
	switch {
	case mainMs == 0 && periodMs == 0:
		return TimeControl{Kind: TimeControlNone}
	case mainMs == 0 && periodMs > 0 && stones == 0:
		return TimeControl{Kind: TimeControlFixedPerMove, PeriodMs: periodMs}
	case periodMs == 0 && stones == 0:
		return TimeControl{Kind: TimeControlSuddenDeath, MainMs: mainMs}
	case stones > 0:
		return TimeControl{Kind: TimeControlByoyomi, MainMs: mainMs, PeriodMs: periodMs, Stones: stones}
	default:
		return TimeControl{Kind: TimeControlFischer, MainMs: mainMs, IncrementMs: periodMs}
	}
}

// TimeManager allocates and tracks the thinking budget for one side,
// across the whole game for Fischer/byo-yomi/sudden-death modes.
type TimeManager struct {
	tc TimeControl

	remainingMs  int64
	stonesPlayed int

	budget        time.Duration
	maxBudget     time.Duration
	startTime     time.Time
	flagged       bool
}

// NewTimeManager builds a time manager for the given control.
func NewTimeManager(tc TimeControl) *TimeManager {
	return &TimeManager{tc: tc, remainingMs: tc.MainMs}
}

// StartMove derives this move's budget and max budget from the
// remaining time and the active control mode, and records the start
// timestamp.
func (tm *TimeManager) StartMove(emptyCount int) {
	tm.startTime = time.Now()

	switch tm.tc.Kind {
	case TimeControlNone:
		tm.budget = time.Hour
		tm.maxBudget = time.Hour
	case TimeControlFixedPerMove:
		tm.budget = time.Duration(tm.tc.PeriodMs) * time.Millisecond
		tm.maxBudget = tm.budget
	case TimeControlByoyomi:
		if tm.remainingMs > 0 {
			tm.budget = tm.allocateFromRemaining(emptyCount)
		} else {
			tm.budget = time.Duration(tm.tc.PeriodMs) * time.Millisecond
		}
		tm.maxBudget = tm.budget * 3
	default: // Fischer, sudden death
		tm.budget = tm.allocateFromRemaining(emptyCount)
		tm.maxBudget = tm.budget * 3
	}
}

// allocateFromRemaining divides the remaining clock across an
// estimate of moves left, weighted toward the endgame where fewer
// empty squares mean fewer moves remain.
func (tm *TimeManager) allocateFromRemaining(emptyCount int) time.Duration {
	movesLeft := emptyCount/2 + 1
	if movesLeft < 1 {
		movesLeft = 1
	}
	perMove := tm.remainingMs / int64(movesLeft)
	if perMove < 10 {
		perMove = 10
	}
	return time.Duration(perMove) * time.Millisecond
}

// Elapsed returns the time spent thinking on the current move.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.startTime) }

// ShouldStopIteration reports whether iterative deepening should stop
// before starting another iteration.
func (tm *TimeManager) ShouldStopIteration() bool {
	return tm.Elapsed() >= tm.budget
}

// PastMaximum reports whether the extended budget has also been
// exceeded, the hard stop regardless of in-flight extensions.
func (tm *TimeManager) PastMaximum() bool {
	return tm.Elapsed() >= tm.maxBudget
}

// TryExtendTime raises the current budget toward maxBudget when the
// best move changed at this iteration or the score dropped sharply.
func (tm *TimeManager) TryExtendTime(pvChanged bool, scoreDrop int) {
	if !pvChanged && scoreDrop < 4 {
		return
	}
	extended := tm.budget * 2
	if extended > tm.maxBudget {
		extended = tm.maxBudget
	}
	tm.budget = extended
}

// EndMove deducts the elapsed time from the clock, applies the
// increment or byo-yomi reset, and reports whether the side flagged.
func (tm *TimeManager) EndMove() bool {
	elapsed := tm.Elapsed().Milliseconds()
	tm.remainingMs -= elapsed

	switch tm.tc.Kind {
	case TimeControlFischer:
		tm.remainingMs += tm.tc.IncrementMs
	case TimeControlByoyomi:
		tm.stonesPlayed++
		if tm.remainingMs <= 0 {
			tm.remainingMs = 0
			if tm.stonesPlayed >= tm.tc.Stones {
				tm.stonesPlayed = 0
			}
		}
	}

	if tm.remainingMs < 0 {
		tm.flagged = true
	}
	return !tm.flagged
}

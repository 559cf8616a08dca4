package model

type TimerKind string

const (
	TimerKindPlan    TimerKind = "plan"
	TimerKindRoutine TimerKind = "routine"
)

func (k TimerKind) IsValid() bool {
	switch k {
	case TimerKindPlan, TimerKindRoutine:
		return true
	default:
		return false
	}
}

// ActiveTask is the at-most-one in-progress timer. TaskID plus Kind
// reference the plan or routine task being timed; Label is the display
// text captured at start so the timer survives task edits.
type ActiveTask struct {
	TaskID           string    `json:"id"`
	Kind             TimerKind `json:"type"`
	Label            string    `json:"task"`
	RemainingSeconds int       `json:"remainingSeconds"`
	TotalDuration    int       `json:"totalDuration"`
	Paused           bool      `json:"isPaused"`
}

// TimeSpent is the elapsed portion of the timer in seconds.
func (a ActiveTask) TimeSpent() int {
	return a.TotalDuration - a.RemainingSeconds
}

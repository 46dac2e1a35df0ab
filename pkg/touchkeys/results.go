package touchkeys

import "errors"

var (
	ErrCancelled = errors.New("operation cancelled by user")

	// ErrInvalidState is returned when the modal lifecycle is driven out of order,
	// such as closing a keyboard that is not shown.
	ErrInvalidState = errors.New("invalid keyboard state")

	// ErrPoisoned is returned by every call after a panic escaped while the
	// keyboard state was locked.
	ErrPoisoned = errors.New("keyboard state poisoned by an earlier panic")

	ErrAlreadyRunning = errors.New("already running")
	ErrInvalidKeyset  = errors.New("invalid keyset")
)

// Outcome is the way a keyboard session ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeCancel
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Result is returned by Ask when the user accepts the input.
type Result struct {
	Text string
}

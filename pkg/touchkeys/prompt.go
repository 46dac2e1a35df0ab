package touchkeys

import (
	"context"
	"fmt"
)

// AskOptions configures a blocking keyboard prompt.
type AskOptions struct {
	Prompt string
	// Accept lists the characters that may be typed. Empty allows everything.
	Accept      string
	InitialText string
}

type askReply struct {
	text    string
	outcome Outcome
}

func (r askReply) result() (*Result, error) {
	if r.outcome != OutcomeOK {
		return nil, ErrCancelled
	}
	return &Result{Text: r.text}, nil
}

// Ask opens a session and blocks until it is accepted or cancelled. Input
// must be delivered from other goroutines. Cancelling returns ErrCancelled.
// If another Open aborts the session, ErrInvalidState is returned. If ctx ends
// first the session is cancelled and ctx.Err() is returned.
func (k *Keyboard) Ask(ctx context.Context, opts AskOptions) (*Result, error) {
	replies := make(chan askReply, 1)
	aborted := make(chan struct{})

	var session uint64
	err := k.locked(func(s *State) error {
		err := s.openSession(opts.Prompt, opts.Accept, opts.InitialText, func(s *State, o Outcome) {
			replies <- askReply{text: s.Text(), outcome: o}
		}, func() {
			close(aborted)
		})
		session = s.modal.Session()
		return err
	})
	if err != nil {
		return nil, err
	}

	select {
	case r := <-replies:
		return r.result()
	case <-aborted:
		return nil, fmt.Errorf("ask: session aborted: %w", ErrInvalidState)
	case <-ctx.Done():
		cancelled := false
		_ = k.locked(func(s *State) error {
			if !s.modal.Visible() || s.modal.Session() != session {
				return nil
			}
			cancelled = true
			return s.close(OutcomeCancel)
		})
		if !cancelled {
			// The session already ended under the lock, so its outcome is waiting.
			select {
			case r := <-replies:
				return r.result()
			case <-aborted:
				return nil, fmt.Errorf("ask: session aborted: %w", ErrInvalidState)
			default:
			}
		}
		return nil, ctx.Err()
	}
}

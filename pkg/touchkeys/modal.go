package touchkeys

// CloseAction is called once when a keyboard session ends. It runs while the
// keyboard state is locked and receives that locked state, so it must use s
// and never call back into the Keyboard.
type CloseAction func(s *State, o Outcome)

// ModalController tracks whether a session is open and holds its single
// pending close action.
type ModalController struct {
	visible bool
	action  CloseAction
	aborted func()
	session uint64
}

func (m *ModalController) Visible() bool {
	return m.visible
}

// Armed reports whether a close action is waiting to fire.
func (m *ModalController) Armed() bool {
	return m.action != nil
}

// Session counts opened sessions. It identifies the session currently shown.
func (m *ModalController) Session() uint64 {
	return m.session
}

// Open arms action and shows the session. A nil action is a no-op callback.
func (m *ModalController) Open(action CloseAction) error {
	return m.open(action, nil)
}

// open also arms aborted, which Abort calls in place of the close action.
func (m *ModalController) open(action CloseAction, aborted func()) error {
	if m.visible {
		return ErrInvalidState
	}
	if action == nil {
		action = func(*State, Outcome) {}
	}
	m.action = action
	m.aborted = aborted
	m.visible = true
	m.session++
	return nil
}

// Close hides the session and fires the armed action exactly once. The action
// is disarmed before it runs so that it may open a new session.
func (m *ModalController) Close(s *State, o Outcome) error {
	if !m.visible {
		return ErrInvalidState
	}
	action := m.action
	m.action = nil
	m.aborted = nil
	m.visible = false
	action(s, o)
	return nil
}

// Abort hides the session without firing its action. Only the abort hook of
// the session, if one was armed, is told.
func (m *ModalController) Abort() {
	aborted := m.aborted
	m.action = nil
	m.aborted = nil
	m.visible = false
	if aborted != nil {
		aborted()
	}
}

package touchkeys

// KeyEvent is an inbound key press, already resolved by the host. Exactly one
// of ID and Char is meaningful: an empty ID is a character key typing Char.
type KeyEvent struct {
	ID       KeyID
	Char     string
	Disabled bool
}

func CharEvent(text string) KeyEvent {
	return KeyEvent{Char: text}
}

func IDEvent(id KeyID) KeyEvent {
	return KeyEvent{ID: id}
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionInsert
	ActionBackspace
	ActionDelete
	ActionToggleInsert
	ActionRotateLayer
	ActionMoveLeft
	ActionMoveRight
	ActionAccept
	ActionCancel
)

func (a ActionKind) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionBackspace:
		return "backspace"
	case ActionDelete:
		return "delete"
	case ActionToggleInsert:
		return "toggle_insert"
	case ActionRotateLayer:
		return "rotate_layer"
	case ActionMoveLeft:
		return "move_left"
	case ActionMoveRight:
		return "move_right"
	case ActionAccept:
		return "accept"
	case ActionCancel:
		return "cancel"
	default:
		return "none"
	}
}

// Action is what a key event does to the keyboard. Text is set for ActionInsert.
type Action struct {
	Kind ActionKind
	Text string
}

var idActions = map[KeyID]ActionKind{
	KeyIDBackspace: ActionBackspace,
	KeyIDDelete:    ActionDelete,
	KeyIDInsert:    ActionToggleInsert,
	KeyIDShift:     ActionRotateLayer,
	KeyIDLeft:      ActionMoveLeft,
	KeyIDRight:     ActionMoveRight,
	KeyIDAccept:    ActionAccept,
	KeyIDCancel:    ActionCancel,
}

// Route resolves a key event. Disabled events, characters rejected by the
// filter, spacers and unknown ids all resolve to ActionNone.
func Route(ev KeyEvent, filter AcceptFilter) Action {
	if ev.Disabled || ev.ID == KeyIDDisabled {
		return Action{}
	}

	if ev.ID == KeyIDChar {
		if ev.Char == "" || !filter.Allows(ev.Char) {
			return Action{}
		}
		return Action{Kind: ActionInsert, Text: ev.Char}
	}

	return Action{Kind: idActions[ev.ID]}
}

package touchkeys

import "golang.org/x/text/unicode/norm"

// EditBuffer is a single line of text with a cursor. Every position is a
// codepoint index into the text, never a byte offset.
type EditBuffer struct {
	text       []rune
	cursor     int
	insertMode bool
}

// Split is the text divided around a position. On holds the single codepoint
// at that position and Post everything after it.
type Split struct {
	Pre     string
	On      string
	Post    string
	HasOn   bool
	HasPost bool
}

// String reassembles the split text.
func (s Split) String() string {
	return s.Pre + s.On + s.Post
}

// NewEditBuffer returns an empty buffer in insert mode.
func NewEditBuffer() *EditBuffer {
	return &EditBuffer{insertMode: true}
}

func (b *EditBuffer) Text() string {
	return string(b.text)
}

// Len returns the length of the text in codepoints.
func (b *EditBuffer) Len() int {
	return len(b.text)
}

func (b *EditBuffer) CursorPos() int {
	return b.cursor
}

// InsertMode reports whether typed text is inserted before the character
// under the cursor. When false the character under the cursor is replaced.
func (b *EditBuffer) InsertMode() bool {
	return b.insertMode
}

func (b *EditBuffer) SetInsertMode(insert bool) {
	b.insertMode = insert
}

func (b *EditBuffer) ToggleInsertMode() {
	b.insertMode = !b.insertMode
}

// SetText replaces the text and places the cursor at its end.
func (b *EditBuffer) SetText(text string) {
	b.text = []rune(norm.NFC.String(text))
	b.cursor = len(b.text)
}

// Split divides the text around pos, which is clamped to the text.
func (b *EditBuffer) Split(pos int) Split {
	pos = clamp(pos, 0, len(b.text))

	s := Split{Pre: string(b.text[:pos])}
	if pos < len(b.text) {
		s.On = string(b.text[pos])
		s.HasOn = true
	}
	if pos+1 < len(b.text) {
		s.Post = string(b.text[pos+1:])
		s.HasPost = true
	}
	return s
}

// Insert types text at the cursor and advances the cursor past it.
func (b *EditBuffer) Insert(text string) {
	inserted := []rune(norm.NFC.String(text))
	if len(inserted) == 0 {
		return
	}

	tail := b.cursor
	if !b.insertMode && tail < len(b.text) {
		tail++
	}

	next := make([]rune, 0, len(b.text)+len(inserted))
	next = append(next, b.text[:b.cursor]...)
	next = append(next, inserted...)
	next = append(next, b.text[tail:]...)

	b.text = next
	b.cursor += len(inserted)
}

// DeleteAtCursor removes the character under the cursor. The cursor stays put.
func (b *EditBuffer) DeleteAtCursor() {
	if b.cursor >= len(b.text) {
		return
	}
	b.text = append(b.text[:b.cursor:b.cursor], b.text[b.cursor+1:]...)
}

// Backspace removes the character before the cursor and moves left.
func (b *EditBuffer) Backspace() {
	if b.cursor == 0 {
		return
	}
	b.cursor--
	b.DeleteAtCursor()
}

func (b *EditBuffer) MoveLeft() {
	b.cursor = clamp(b.cursor-1, 0, len(b.text))
}

func (b *EditBuffer) MoveRight() {
	b.cursor = clamp(b.cursor+1, 0, len(b.text))
}

// Reset empties the buffer. The insert mode is kept.
func (b *EditBuffer) Reset() {
	b.text = nil
	b.cursor = 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

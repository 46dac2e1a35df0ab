package touchkeys

import "testing"

// Buffer tests use a small fixture DSL:
//   edit(t, "text", cursor, func(f *bufFixture) {
//     f.typeText("X")
//     f.expect("aXb", 2)
//   })

type bufFixture struct {
	t *testing.T
	b *EditBuffer
}

func edit(t *testing.T, text string, cursor int, fn func(f *bufFixture)) {
	t.Helper()
	b := NewEditBuffer()
	b.SetText(text)
	b.cursor = cursor
	fn(&bufFixture{t: t, b: b})
}

func (f *bufFixture) typeText(s string) { f.b.Insert(s) }
func (f *bufFixture) backspace() { f.b.Backspace() }
func (f *bufFixture) del() { f.b.DeleteAtCursor() }
func (f *bufFixture) left() { f.b.MoveLeft() }
func (f *bufFixture) right() { f.b.MoveRight() }

func (f *bufFixture) expect(text string, cursor int) {
	f.t.Helper()
	if got := f.b.Text(); got != text {
		f.t.Fatalf("text = %q, want %q", got, text)
	}
	if got := f.b.CursorPos(); got != cursor {
		f.t.Fatalf("cursor = %d, want %d", got, cursor)
	}
}

func TestSplit_MultiByte(t *testing.T) {
	b := NewEditBuffer()
	b.SetText("a€c€e")

	tests := []struct {
		pos     int
		pre     string
		on      string
		hasOn   bool
		post    string
		hasPost bool
	}{
		{0, "", "a", true, "€c€e", true},
		{1, "a", "€", true, "c€e", true},
		{3, "a€c", "€", true, "e", true},
		{4, "a€c€", "e", true, "", false},
		{5, "a€c€e", "", false, "", false},
	}

	for _, tt := range tests {
		s := b.Split(tt.pos)
		if s.Pre != tt.pre || s.On != tt.on || s.HasOn != tt.hasOn || s.Post != tt.post || s.HasPost != tt.hasPost {
			t.Errorf("Split(%d) = %+v, want pre=%q on=%q/%v post=%q/%v",
				tt.pos, s, tt.pre, tt.on, tt.hasOn, tt.post, tt.hasPost)
		}
		if s.String() != "a€c€e" {
			t.Errorf("Split(%d) reassembles to %q", tt.pos, s.String())
		}
	}
}

func TestSplit_ClampsOutOfRange(t *testing.T) {
	b := NewEditBuffer()
	b.SetText("h\u00e9llo")

	if s := b.Split(-3); s.Pre != "" || s.On != "h" {
		t.Fatalf("Split(-3) = %+v, want start of text", s)
	}
	if s := b.Split(99); s.Pre != "h\u00e9llo" || s.HasOn || s.HasPost {
		t.Fatalf("Split(99) = %+v, want whole text in pre", s)
	}
}

func TestSplit_Empty(t *testing.T) {
	s := NewEditBuffer().Split(0)
	if s.Pre != "" || s.HasOn || s.HasPost {
		t.Fatalf("Split on empty buffer = %+v", s)
	}
}

func TestInsert_InsertMode(t *testing.T) {
	edit(t, "", 0, func(f *bufFixture) {
		f.typeText("a")
		f.typeText("b")
		f.left()
		f.typeText("X")
		f.expect("aXb", 2)
	})
}

func TestInsert_OverwriteMode(t *testing.T) {
	edit(t, "abc", 1, func(f *bufFixture) {
		f.b.SetInsertMode(false)
		f.typeText("X")
		f.expect("aXc", 2)
		f.typeText("YZ")
		f.expect("aXYZ", 4)
	})
}

func TestInsert_OverwriteAtEndAppends(t *testing.T) {
	edit(t, "ab", 2, func(f *bufFixture) {
		f.b.SetInsertMode(false)
		f.typeText("c")
		f.expect("abc", 3)
	})
}

func TestInsert_MultiCodepointAdvancesByLength(t *testing.T) {
	edit(t, "ab", 1, func(f *bufFixture) {
		f.typeText("www.")
		f.expect("awww.b", 5)
	})
}

func TestInsert_EmptyIsNoop(t *testing.T) {
	edit(t, "ab", 1, func(f *bufFixture) {
		f.typeText("")
		f.expect("ab", 1)
	})
}

func TestInsert_NormalizesToNFC(t *testing.T) {
	edit(t, "", 0, func(f *bufFixture) {
		f.typeText("e\u0301")
		f.expect("\u00e9", 1)
	})
}

func TestInsertThenBackspace_RestoresState(t *testing.T) {
	for _, text := range []string{"", "a", "a€c€e", "日本語"} {
		n := len([]rune(text))
		for cursor := 0; cursor <= n; cursor++ {
			edit(t, text, cursor, func(f *bufFixture) {
				f.typeText("€")
				f.backspace()
				f.expect(text, cursor)
			})
		}
	}
}

func TestOverwriteThenBackspace_RestoresCursor(t *testing.T) {
	edit(t, "abc", 1, func(f *bufFixture) {
		f.b.SetInsertMode(false)
		f.typeText("X")
		f.backspace()
		f.expect("ac", 1)
	})
}

func TestBackspace_AtStartIsNoop(t *testing.T) {
	edit(t, "a€c", 0, func(f *bufFixture) {
		f.backspace()
		f.expect("a€c", 0)
	})
}

func TestBackspace_MultiByte(t *testing.T) {
	edit(t, "a€c", 2, func(f *bufFixture) {
		f.backspace()
		f.expect("ac", 1)
	})
}

func TestDeleteAtCursor(t *testing.T) {
	edit(t, "a€c", 1, func(f *bufFixture) {
		f.del()
		f.expect("ac", 1)
	})
	edit(t, "ab", 2, func(f *bufFixture) {
		f.del()
		f.expect("ab", 2)
	})
}

func TestMove_Clamps(t *testing.T) {
	edit(t, "a€", 0, func(f *bufFixture) {
		f.left()
		f.expect("a€", 0)
		f.right()
		f.right()
		f.right()
		f.expect("a€", 2)
	})
}

func TestReset(t *testing.T) {
	edit(t, "hello", 3, func(f *bufFixture) {
		f.b.SetInsertMode(false)
		f.b.Reset()
		f.expect("", 0)
		if f.b.InsertMode() {
			t.Fatal("Reset must not change the insert mode")
		}
	})
}

func TestToggleInsertMode(t *testing.T) {
	b := NewEditBuffer()
	if !b.InsertMode() {
		t.Fatal("new buffer should start in insert mode")
	}
	b.ToggleInsertMode()
	if b.InsertMode() {
		t.Fatal("toggle should switch to overwrite")
	}
}

package touchkeys

import (
	"sort"

	"golang.org/x/text/unicode/norm"
)

// AcceptFilter restricts which characters may be typed. The zero value
// accepts everything.
type AcceptFilter struct {
	allowed map[rune]struct{}
}

// NewAcceptFilter builds a filter from the characters of allowed. An empty
// string accepts everything.
func NewAcceptFilter(allowed string) AcceptFilter {
	f := AcceptFilter{}
	for _, r := range norm.NFC.String(allowed) {
		if f.allowed == nil {
			f.allowed = make(map[rune]struct{})
		}
		f.allowed[r] = struct{}{}
	}
	return f
}

func (f AcceptFilter) Empty() bool {
	return len(f.allowed) == 0
}

// Allows reports whether every character of text may be typed.
func (f AcceptFilter) Allows(text string) bool {
	if f.Empty() {
		return true
	}
	for _, r := range norm.NFC.String(text) {
		if _, ok := f.allowed[r]; !ok {
			return false
		}
	}
	return true
}

// Enabled reports whether def is usable on the given layer. Structural keys
// are never disabled by the filter. Spacers are never enabled.
func (f AcceptFilter) Enabled(def KeyDef, layer int) bool {
	switch {
	case def.Disabled, def.ID == KeyIDSpacer:
		return false
	case def.ID.Structural():
		return true
	}
	label := def.Labels[layer]
	return label != "" && f.Allows(label)
}

// String returns the allowed characters in codepoint order.
func (f AcceptFilter) String() string {
	runes := make([]rune, 0, len(f.allowed))
	for r := range f.allowed {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}

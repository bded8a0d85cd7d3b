package form

import (
	"slices"

	"github.com/edvin/kitcatalog/internal/textlist"
)

// JoinList renders a list field for editing: ["a", "b"] becomes "a, b".
func JoinList(items []string) string { return textlist.Join(items) }

// ParseList commits edited text: "a,  b ,,c" becomes ["a", "b", "c"].
func ParseList(text string) []string { return textlist.Parse(text) }

// ListBuffer holds the free text of one list field while it is being edited.
// Keystrokes only touch the text; the committed list changes on Blur.
type ListBuffer struct {
	text      string
	committed []string
	seen      []string
}

// NewListBuffer returns a buffer synced to source.
func NewListBuffer(source []string) *ListBuffer {
	b := &ListBuffer{}
	b.reset(source)
	return b
}

// Sync applies an upstream value. The text is overwritten only when source
// differs from the value seen at the previous sync, so re-rendering with an
// unchanged record keeps in-progress edits.
func (b *ListBuffer) Sync(source []string) {
	if slices.Equal(source, b.seen) {
		return
	}
	b.reset(source)
}

func (b *ListBuffer) reset(source []string) {
	b.seen = slices.Clone(source)
	b.committed = slices.Clone(source)
	b.text = JoinList(source)
}

// Edit replaces the text.
func (b *ListBuffer) Edit(text string) { b.text = text }

// Blur parses the text into the committed list and normalizes the text.
func (b *ListBuffer) Blur() []string {
	b.reset(ParseList(b.text))
	return slices.Clone(b.committed)
}

func (b *ListBuffer) Text() string { return b.text }

func (b *ListBuffer) Committed() []string { return slices.Clone(b.committed) }

// Dirty reports whether the text holds edits not yet committed.
func (b *ListBuffer) Dirty() bool { return b.text != JoinList(b.committed) }

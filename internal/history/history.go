// Package history keeps a browser-like back/forward list of bookmarks.
package history

import "github.com/dloss/drilldown/internal/bookmark"

const defaultLimit = 100

// History is the navigation history of the console. Bookmark pushes an
// entry and notifies subscribers; Back and Forward move the cursor and
// notify as well, like browser navigation firing a hash change.
type History struct {
	entries     []bookmark.Bookmark
	cursor      int
	limit       int
	subscribers []func(bookmark.Bookmark)
}

func New(initial bookmark.Bookmark) *History {
	h := &History{cursor: -1, limit: defaultLimit}
	if !initial.IsEmpty() {
		h.entries = []bookmark.Bookmark{initial}
		h.cursor = 0
	}
	return h
}

// SetLimit caps the number of kept entries; the oldest are dropped first.
func (h *History) SetLimit(n int) {
	if n > 0 {
		h.limit = n
		h.trim()
	}
}

func (h *History) Current() bookmark.Bookmark {
	if h.cursor < 0 {
		return bookmark.Bookmark{}
	}
	return h.entries[h.cursor]
}

// Bookmark pushes b. Publishing the current bookmark again is a no-op;
// otherwise forward entries are discarded.
func (h *History) Bookmark(b bookmark.Bookmark) {
	if b.IsEmpty() || b.Equal(h.Current()) {
		return
	}
	h.entries = append(h.entries[:h.cursor+1], b)
	h.cursor = len(h.entries) - 1
	h.trim()
	h.notify(b)
}

// Subscribe registers fn for every change of the current bookmark.
func (h *History) Subscribe(fn func(bookmark.Bookmark)) {
	h.subscribers = append(h.subscribers, fn)
}

func (h *History) CanBack() bool    { return h.cursor > 0 }
func (h *History) CanForward() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }

// Back moves to the previous entry and returns it.
func (h *History) Back() (bookmark.Bookmark, bool) {
	if !h.CanBack() {
		return bookmark.Bookmark{}, false
	}
	h.cursor--
	b := h.entries[h.cursor]
	h.notify(b)
	return b, true
}

// Forward moves to the next entry and returns it.
func (h *History) Forward() (bookmark.Bookmark, bool) {
	if !h.CanForward() {
		return bookmark.Bookmark{}, false
	}
	h.cursor++
	b := h.entries[h.cursor]
	h.notify(b)
	return b, true
}

// Entries returns the history, oldest first.
func (h *History) Entries() []bookmark.Bookmark {
	return append([]bookmark.Bookmark(nil), h.entries...)
}

func (h *History) trim() {
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]bookmark.Bookmark(nil), h.entries[over:]...)
		h.cursor -= over
	}
}

func (h *History) notify(b bookmark.Bookmark) {
	for _, fn := range h.subscribers {
		fn(b)
	}
}

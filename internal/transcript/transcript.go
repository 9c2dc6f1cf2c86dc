// ABOUTME: Append-only conversation transcript with handle-based removal.
// ABOUTME: Owns the typing placeholder lifecycle and notifies a listener after every mutation.

package transcript

import (
	"sync"
	"time"

	"github.com/embedchat/embedchat/internal/ident"
)

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Handle is the opaque identifier of one rendered entry. It is the sole
// way to remove an entry after appending.
type Handle string

// Entry is one bubble in the conversation. Entries are never edited after
// append; the only mutation is removal of a typing placeholder by handle.
type Entry struct {
	Handle Handle
	Role   Role
	Text   string
	Typing bool
	At     time.Time
}

// Event describes a transcript mutation delivered to the listener.
type Event struct {
	// Entries is a snapshot of the transcript after the mutation, in
	// conversation order. The newest entry is last, which is what a
	// surface scrolls to.
	Entries []Entry
}

// Listener receives an Event after every append or removal. It is invoked
// outside the transcript lock, on the mutating goroutine.
type Listener func(Event)

// Transcript is an ordered, append-only list of conversation entries.
// It is safe for concurrent use: UI events and network completions may
// mutate it from different goroutines.
type Transcript struct {
	mu         sync.Mutex
	entries    []Entry
	maxEntries int
	listener   Listener
	gen        *ident.Generator
}

// Option configures a Transcript.
type Option func(*Transcript)

// WithMaxEntries caps the number of retained entries. When an append would
// exceed the cap, the oldest non-typing entries are evicted. Zero or
// negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(t *Transcript) {
		t.maxEntries = n
	}
}

// WithListener registers the mutation listener.
func WithListener(l Listener) Option {
	return func(t *Transcript) {
		t.listener = l
	}
}

// New creates an empty Transcript.
func New(opts ...Option) *Transcript {
	t := &Transcript{
		gen: ident.NewGenerator(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetListener replaces the mutation listener. Pass nil to detach.
func (t *Transcript) SetListener(l Listener) {
	t.mu.Lock()
	t.listener = l
	t.mu.Unlock()
}

// Append adds an entry with the given role and text and returns its handle.
func (t *Transcript) Append(role Role, text string) Handle {
	return t.append(Entry{
		Role: role,
		Text: text,
	})
}

// AppendTyping adds a transient assistant typing placeholder and returns
// its handle so the dispatcher can remove it when the exchange resolves.
func (t *Transcript) AppendTyping() Handle {
	return t.append(Entry{
		Role:   RoleAssistant,
		Text:   "Typing...",
		Typing: true,
	})
}

// Remove deletes the entry with the given handle. It reports whether an
// entry was actually removed; removing an absent handle is a no-op, which
// makes double-removal from racing completion paths safe.
func (t *Transcript) Remove(h Handle) bool {
	t.mu.Lock()
	idx := -1
	for i, e := range t.entries {
		if e.Handle == h {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return false
	}
	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	listener, snapshot := t.listener, t.snapshotLocked()
	t.mu.Unlock()

	notify(listener, snapshot)
	return true
}

// Entries returns a copy of the transcript in conversation order.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Len returns the number of entries, including any typing placeholder.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// TypingCount returns the number of typing placeholders currently present.
// A well-behaved dispatcher keeps this at zero or one.
func (t *Transcript) TypingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.entries {
		if e.Typing {
			n++
		}
	}
	return n
}

// Count returns the number of non-typing entries with the given role.
func (t *Transcript) Count(role Role) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.entries {
		if e.Role == role && !e.Typing {
			n++
		}
	}
	return n
}

func (t *Transcript) append(e Entry) Handle {
	t.mu.Lock()
	e.Handle = Handle(t.gen.Next("msg"))
	e.At = time.Now()
	t.entries = append(t.entries, e)
	t.evictLocked()
	listener, snapshot := t.listener, t.snapshotLocked()
	t.mu.Unlock()

	notify(listener, snapshot)
	return e.Handle
}

// evictLocked drops the oldest non-typing entries while over the cap.
// Typing placeholders are exempt: their handles must stay valid until the
// dispatcher removes them.
func (t *Transcript) evictLocked() {
	if t.maxEntries <= 0 {
		return
	}
	for len(t.entries) > t.maxEntries {
		idx := -1
		for i, e := range t.entries {
			if !e.Typing {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	}
}

func (t *Transcript) snapshotLocked() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func notify(l Listener, snapshot []Entry) {
	if l != nil {
		l(Event{Entries: snapshot})
	}
}

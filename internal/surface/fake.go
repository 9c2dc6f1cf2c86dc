// ABOUTME: In-memory surface used by tests and headless hosts.
// ABOUTME: Records mount state, visibility, input lock, focus count, and rendered snapshots.

package surface

import (
	"sync"

	"github.com/embedchat/embedchat/internal/transcript"
)

// Fake is an in-memory Surface that records every mutation. Tests assert
// on its fields through the accessor methods; all of them hold the mutex
// so assertions can run while a dispatcher goroutine is completing.
type Fake struct {
	mu         sync.Mutex
	view       View
	mounted    bool
	open       bool
	input      bool
	focusCount int
	rendered   [][]transcript.Entry
	mutations  int
}

// NewFake creates an unmounted fake surface.
func NewFake() *Fake {
	return &Fake{}
}

// Mount implements Surface.
func (f *Fake) Mount(view View) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mounted {
		return ErrAlreadyMounted
	}
	f.view = view
	f.mounted = true
	f.open = false
	f.input = true
	return nil
}

// Unmount implements Surface.
func (f *Fake) Unmount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mounted = false
}

// Alive implements Surface.
func (f *Fake) Alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounted
}

// SetOpen implements Surface.
func (f *Fake) SetOpen(open bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.mounted {
		return
	}
	f.open = open
	f.mutations++
}

// SetInputEnabled implements Surface.
func (f *Fake) SetInputEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.mounted {
		return
	}
	f.input = enabled
	f.mutations++
}

// FocusInput implements Surface.
func (f *Fake) FocusInput() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.mounted {
		return
	}
	f.focusCount++
}

// RenderTranscript implements Surface.
func (f *Fake) RenderTranscript(entries []transcript.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.mounted {
		return
	}
	snapshot := make([]transcript.Entry, len(entries))
	copy(snapshot, entries)
	f.rendered = append(f.rendered, snapshot)
	f.mutations++
}

// View returns the view the surface was mounted with.
func (f *Fake) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

// IsOpen reports the current launcher/panel state.
func (f *Fake) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// InputEnabled reports whether the input control is unlocked.
func (f *Fake) InputEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// FocusCount returns how many times focus returned to the input.
func (f *Fake) FocusCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focusCount
}

// LastRender returns the most recent transcript snapshot, or nil if the
// transcript was never rendered.
func (f *Fake) LastRender() []transcript.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rendered) == 0 {
		return nil
	}
	return f.rendered[len(f.rendered)-1]
}

// Mutations returns the total count of state mutations since mounting.
// Used to prove that operations after Unmount touch nothing.
func (f *Fake) Mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}

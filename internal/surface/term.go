// ABOUTME: Terminal implementation of the widget surface.
// ABOUTME: Paints the launcher line, panel frame, transcript bubbles, and input row to a writer.

package surface

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/embedchat/embedchat/internal/transcript"
)

const panelWidth = 46

// Terminal renders the widget to an io.Writer, typically stdout. It is a
// line-oriented rendition of the floating widget: the launcher is a single
// line, the open panel is a framed block with header, messages, and input
// row. All methods are safe for concurrent use and become no-ops after
// Unmount.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	view    View
	mounted bool
	open    bool
	input   bool
	entries []transcript.Entry
}

// NewTerminal creates a terminal surface writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Mount constructs the widget visuals. The surface starts closed with the
// input enabled, showing only the launcher.
func (t *Terminal) Mount(view View) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mounted {
		return ErrAlreadyMounted
	}
	t.view = view
	t.mounted = true
	t.open = false
	t.input = true
	t.entries = nil

	t.paintLauncherLocked()
	return nil
}

// Unmount tears the widget down. Later mutations are silently ignored.
func (t *Terminal) Unmount() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mounted = false
	t.entries = nil
}

// Alive reports whether the surface is mounted.
func (t *Terminal) Alive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mounted
}

// SetOpen switches between launcher and panel. Launcher and panel are
// mutually exclusive: exactly one is visible at any time while mounted.
func (t *Terminal) SetOpen(open bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.mounted || t.open == open {
		return
	}
	t.open = open
	if open {
		t.paintPanelLocked()
	} else {
		t.paintLauncherLocked()
	}
}

// SetInputEnabled locks or unlocks the input row.
func (t *Terminal) SetInputEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.mounted || t.input == enabled {
		return
	}
	t.input = enabled
	if t.open {
		t.paintInputLocked()
	}
}

// FocusInput repaints the input row prompt. In a terminal there is no real
// focus to move; the repaint is the visible cue that input is ready again.
func (t *Terminal) FocusInput() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.mounted || !t.open {
		return
	}
	t.paintInputLocked()
}

// RenderTranscript repaints the message list with the newest entry last.
func (t *Terminal) RenderTranscript(entries []transcript.Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.mounted {
		return
	}
	t.entries = entries
	if t.open {
		t.paintMessagesLocked()
	}
}

func (t *Terminal) paintLauncherLocked() {
	th := t.view.Theme
	fmt.Fprintf(t.w, "\n  %s\n", th.Primary.Sprintf("[ %s ]", t.view.ButtonText))
	fmt.Fprintln(t.w, th.Dim.Sprint("  press /open to start chatting"))
}

func (t *Terminal) paintPanelLocked() {
	th := t.view.Theme
	bar := strings.Repeat("─", panelWidth)

	fmt.Fprintf(t.w, "\n  ┌%s┐\n", bar)
	fmt.Fprintf(t.w, "  │ %s%s │\n", th.Primary.Sprint(t.view.Title), pad(t.view.Title, panelWidth-2))
	fmt.Fprintf(t.w, "  ├%s┤\n", bar)
	t.paintMessagesLocked()
	t.paintInputLocked()
}

func (t *Terminal) paintMessagesLocked() {
	th := t.view.Theme
	if len(t.entries) == 0 {
		fmt.Fprintln(t.w, th.Dim.Sprint("  (no messages yet)"))
		return
	}
	for _, e := range t.entries {
		switch {
		case e.Typing:
			fmt.Fprintf(t.w, "  %s\n", th.Dim.Sprint(e.Text))
		case e.Role == transcript.RoleUser:
			fmt.Fprintf(t.w, "  %s %s\n", th.User.Sprint("you>"), e.Text)
		default:
			fmt.Fprintf(t.w, "  %s %s\n", th.Bot.Sprint("bot>"), e.Text)
		}
	}
}

func (t *Terminal) paintInputLocked() {
	th := t.view.Theme
	if t.input {
		fmt.Fprintf(t.w, "  %s %s\n", th.Primary.Sprint(">"), th.Dim.Sprint(t.view.Placeholder))
	} else {
		fmt.Fprintln(t.w, th.Dim.Sprint("  > (waiting for reply...)"))
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return ""
	}
	return strings.Repeat(" ", width-len(s))
}

// ABOUTME: Surface abstraction the widget renders through, replacing a browser DOM.
// ABOUTME: Defines the View (interpolated config), mount lifecycle, and liveness checks.

package surface

import (
	"errors"

	"github.com/embedchat/embedchat/internal/transcript"
)

// ErrAlreadyMounted is returned when Mount is called on a surface that
// already hosts a widget view.
var ErrAlreadyMounted = errors.New("surface already mounted")

// View carries everything a surface needs to construct the widget's
// visual tree. All values are interpolated from the configuration at
// construction time; a mounted view never changes.
type View struct {
	Title       string
	ButtonText  string
	Placeholder string
	Theme       Theme
}

// Surface is the rendering backend the widget drives. Implementations own
// the launcher/panel visuals, the input control, and the transcript view.
//
// Completion handlers may call into a surface after it has been unmounted
// by an intervening UI action; implementations must make every method a
// safe no-op once Alive reports false.
type Surface interface {
	// Mount constructs the visual tree from the view. Mounting an
	// already-mounted surface returns ErrAlreadyMounted.
	Mount(view View) error

	// Unmount tears the visual tree down. Safe to call repeatedly.
	Unmount()

	// Alive reports whether the surface is mounted and can be mutated.
	Alive() bool

	// SetOpen toggles between the launcher (closed) and the panel (open).
	SetOpen(open bool)

	// SetInputEnabled locks or unlocks the input control.
	SetInputEnabled(enabled bool)

	// FocusInput returns focus to the input control.
	FocusInput()

	// RenderTranscript redraws the message list. The newest entry is last
	// and is the one scrolled into view.
	RenderTranscript(entries []transcript.Entry)
}

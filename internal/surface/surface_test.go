// ABOUTME: Tests for theme compilation and the terminal surface lifecycle.
// ABOUTME: Verifies idempotent style compilation and no-op mutation after unmount.

package surface

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedchat/embedchat/internal/transcript"
)

func TestCompileTheme_CachedPerPalette(t *testing.T) {
	a := CompileTheme("#2563eb", "#ffffff")
	b := CompileTheme("#2563eb", "#ffffff")

	// Same palette compiles once; the cached styles are identical
	assert.Same(t, a.Primary, b.Primary)
	assert.Equal(t, "#2563eb", a.PrimaryCSS)
}

func TestCompileTheme_DistinctPalettes(t *testing.T) {
	a := CompileTheme("#ff0000", "#ffffff")
	b := CompileTheme("#00ff00", "#ffffff")

	assert.NotSame(t, a.Primary, b.Primary)
}

func TestTerminal_MountOnce(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	view := View{
		Title:       "Chat with us",
		ButtonText:  "Chat",
		Placeholder: "Type your message...",
		Theme:       CompileTheme("#2563eb", "#ffffff"),
	}

	require.NoError(t, term.Mount(view))
	assert.True(t, term.Alive())

	err := term.Mount(view)
	assert.ErrorIs(t, err, ErrAlreadyMounted)
}

func TestTerminal_LauncherThenPanel(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	view := View{
		Title:       "Chat with us",
		ButtonText:  "Chat",
		Placeholder: "Type your message...",
		Theme:       CompileTheme("#2563eb", "#ffffff"),
	}
	require.NoError(t, term.Mount(view))

	out := buf.String()
	assert.Contains(t, out, "Chat", "launcher shows the button text")

	buf.Reset()
	term.SetOpen(true)
	out = buf.String()
	assert.Contains(t, out, "Chat with us", "panel shows the title")
	assert.Contains(t, out, "Type your message...", "panel shows the placeholder")
}

func TestTerminal_RenderTranscript(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	require.NoError(t, term.Mount(View{
		Title:       "Chat with us",
		ButtonText:  "Chat",
		Placeholder: "Type your message...",
		Theme:       CompileTheme("#2563eb", "#ffffff"),
	}))
	term.SetOpen(true)

	buf.Reset()
	term.RenderTranscript([]transcript.Entry{
		{Role: transcript.RoleUser, Text: "Hello"},
		{Role: transcript.RoleAssistant, Text: "Typing...", Typing: true},
	})

	out := buf.String()
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "Typing...")
	// User line precedes the typing placeholder
	assert.Less(t, strings.Index(out, "Hello"), strings.Index(out, "Typing..."))
}

func TestTerminal_NoopAfterUnmount(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	require.NoError(t, term.Mount(View{Theme: CompileTheme("#2563eb", "#ffffff")}))
	term.Unmount()
	require.False(t, term.Alive())

	buf.Reset()
	// None of these may write or panic on a dead surface
	term.SetOpen(true)
	term.SetInputEnabled(false)
	term.FocusInput()
	term.RenderTranscript([]transcript.Entry{{Role: transcript.RoleUser, Text: "late"}})

	assert.Empty(t, buf.String())
}

func TestFake_RecordsLifecycle(t *testing.T) {
	f := NewFake()

	require.NoError(t, f.Mount(View{Title: "T"}))
	require.ErrorIs(t, f.Mount(View{}), ErrAlreadyMounted)

	f.SetOpen(true)
	f.SetInputEnabled(false)
	f.FocusInput()
	f.RenderTranscript([]transcript.Entry{{Role: transcript.RoleUser, Text: "hi"}})

	assert.True(t, f.IsOpen())
	assert.False(t, f.InputEnabled())
	assert.Equal(t, 1, f.FocusCount())
	require.Len(t, f.LastRender(), 1)

	before := f.Mutations()
	f.Unmount()
	f.SetOpen(false)
	f.RenderTranscript(nil)
	assert.Equal(t, before, f.Mutations(), "mutations after unmount must be no-ops")
}

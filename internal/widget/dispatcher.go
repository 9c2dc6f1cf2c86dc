// ABOUTME: Message dispatcher: the one send cycle of the widget protocol.
// ABOUTME: user bubble -> typing placeholder -> webhook -> reply or error bubble, input relocked.

package widget

import (
	"context"
	"errors"
	"strings"

	"github.com/embedchat/embedchat/internal/transcript"
)

// ErrorReply is the fixed user-facing text shown when a send cycle fails.
// Failures surface as a chat bubble, never as an error the host observes.
const ErrorReply = "Error occurred"

var (
	// ErrEmptyMessage is returned when the trimmed input is empty. Nothing
	// is appended and no network call is made.
	ErrEmptyMessage = errors.New("empty message")

	// ErrSendInFlight is returned when a send is attempted while another
	// one is still awaiting its reply. At most one request is in flight
	// per widget instance.
	ErrSendInFlight = errors.New("send already in flight")
)

// Send runs one complete send cycle for the raw input:
//
//  1. trim; empty input is a no-op
//  2. take the in-flight gate and lock the input control
//  3. append the user bubble
//  4. append the typing placeholder
//  5. exchange with the webhook (bounded by the configured timeout)
//  6. replace the placeholder with the reply, or with ErrorReply on any
//     failure, and unlock the input with focus restored
//
// The user bubble always precedes the typing placeholder, which always
// precedes the resolved assistant bubble, regardless of network timing.
// The returned error is diagnostic only: every failure has already been
// rendered as a transcript bubble, and no failure ever escapes as a panic.
func (w *Widget) Send(ctx context.Context, raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ErrEmptyMessage
	}

	if !w.inFlight.CompareAndSwap(false, true) {
		w.logger.Debug("send rejected, request already in flight")
		return ErrSendInFlight
	}
	defer w.inFlight.Store(false)

	w.surf.SetInputEnabled(false)

	w.transcript.Append(transcript.RoleUser, text)
	typing := w.transcript.AppendTyping()

	reply, err := w.exchange(ctx, text)

	// The panel may have been closed or the widget destroyed while the
	// request was in flight. Transcript bookkeeping still runs; surface
	// paints are absorbed by the surface once it is gone.
	w.transcript.Remove(typing)

	if err != nil {
		w.logger.Error("send failed", "error", err, "session_id", w.SessionID())
		w.transcript.Append(transcript.RoleAssistant, ErrorReply)
	} else {
		w.transcript.Append(transcript.RoleAssistant, reply)
	}

	w.surf.SetInputEnabled(true)
	if w.surf.Alive() {
		w.surf.FocusInput()
	}

	return err
}

// exchange performs the network call, applying the configured per-request
// timeout. A zero timeout leaves the caller's context untouched.
func (w *Widget) exchange(ctx context.Context, text string) (string, error) {
	if w.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.RequestTimeout)
		defer cancel()
	}
	return w.client.Send(ctx, w.SessionID(), text)
}

// ABOUTME: Widget instance: configuration binding, open/closed state machine, input lock.
// ABOUTME: Construction mounts the surface; all visual transitions are side-effect free.

package widget

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/embedchat/embedchat/internal/config"
	"github.com/embedchat/embedchat/internal/ident"
	"github.com/embedchat/embedchat/internal/surface"
	"github.com/embedchat/embedchat/internal/transcript"
	"github.com/embedchat/embedchat/internal/webhook"
)

// State is the widget's visibility state.
type State int

const (
	// StateClosed shows only the launcher. Initial state.
	StateClosed State = iota
	// StateOpen shows the conversation panel.
	StateOpen
)

// String returns the state name for logging.
func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// ReplyClient is what the dispatcher needs from the webhook layer.
type ReplyClient interface {
	Send(ctx context.Context, senderID, text string) (string, error)
}

// Widget is one embedded chat widget instance. It owns the conversation
// transcript, the open/closed state machine, and the single-send-in-flight
// gate. A Widget holds no ambient global state; everything it needs is
// passed at construction.
type Widget struct {
	cfg        config.Config
	surf       surface.Surface
	transcript *transcript.Transcript
	client     ReplyClient
	logger     *slog.Logger

	mu        sync.Mutex
	state     State
	sessionID string

	inFlight atomic.Bool
}

// Option configures a Widget.
type Option func(*Widget)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithHTTPClient sets the *http.Client used for webhook exchanges.
func WithHTTPClient(hc *http.Client) Option {
	return func(w *Widget) {
		w.client = webhook.New(w.cfg.APIBaseURL, w.cfg.WebhookKey,
			webhook.WithHTTPClient(hc), webhook.WithLogger(w.logger))
	}
}

// WithReplyClient replaces the webhook client entirely.
func WithReplyClient(c ReplyClient) Option {
	return func(w *Widget) {
		w.client = c
	}
}

// New validates the configuration, mounts the surface, and returns a ready
// widget in the closed state. A previously mounted surface is replaced:
// re-creation tears down the prior instance rather than duplicating it.
// On validation failure nothing is mounted and the error describes the
// missing field.
func New(cfg config.Config, surf surface.Surface, opts ...Option) (*Widget, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &Widget{
		cfg:       cfg,
		surf:      surf,
		logger:    slog.Default().With("component", "widget"),
		state:     StateClosed,
		sessionID: ident.NewSessionID(),
	}
	w.client = webhook.New(cfg.APIBaseURL, cfg.WebhookKey)

	var tropts []transcript.Option
	if cfg.MaxTranscript > 0 {
		tropts = append(tropts, transcript.WithMaxEntries(cfg.MaxTranscript))
	}
	w.transcript = transcript.New(tropts...)

	for _, opt := range opts {
		opt(w)
	}

	view := surface.View{
		Title:       cfg.Title,
		ButtonText:  cfg.ButtonText,
		Placeholder: cfg.Placeholder,
		Theme:       surface.CompileTheme(cfg.PrimaryColor, cfg.TextColor),
	}
	if err := surf.Mount(view); err != nil {
		if !errors.Is(err, surface.ErrAlreadyMounted) {
			return nil, err
		}
		surf.Unmount()
		if err := surf.Mount(view); err != nil {
			return nil, err
		}
	}

	// Every transcript mutation repaints the surface, which scrolls to
	// the newest entry. The surface itself ignores paints once unmounted.
	w.transcript.SetListener(func(e transcript.Event) {
		w.surf.RenderTranscript(e.Entries)
	})

	w.logger.Debug("widget created",
		"webhook_key", cfg.WebhookKey,
		"session_id", w.sessionID,
	)
	return w, nil
}

// Open reveals the conversation panel. Purely visual: no network or data
// side effects, and opening while already open changes nothing.
func (w *Widget) Open() {
	w.setState(StateOpen)
}

// Close hides the panel and shows the launcher again. An in-flight send is
// not cancelled by closing; its completion tolerates the hidden panel.
func (w *Widget) Close() {
	w.setState(StateClosed)
}

// Toggle flips between open and closed.
func (w *Widget) Toggle() {
	w.mu.Lock()
	next := StateOpen
	if w.state == StateOpen {
		next = StateClosed
	}
	w.mu.Unlock()
	w.setState(next)
}

// IsOpen reports whether the panel is visible.
func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == StateOpen
}

// SessionID returns the sender identifier used to correlate this
// conversation on the backend.
func (w *Widget) SessionID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessionID
}

// NewSession rotates the sender identifier, starting a fresh conversation
// from the backend's point of view. The visible transcript is unaffected.
func (w *Widget) NewSession() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sessionID = ident.NewSessionID()
	return w.sessionID
}

// Transcript exposes the conversation transcript.
func (w *Widget) Transcript() *transcript.Transcript {
	return w.transcript
}

// Config returns the immutable configuration the widget was built with.
func (w *Widget) Config() config.Config {
	return w.cfg
}

// Destroy unmounts the surface. In-flight completions after Destroy are
// absorbed silently.
func (w *Widget) Destroy() {
	w.surf.Unmount()
}

func (w *Widget) setState(s State) {
	w.mu.Lock()
	if w.state == s {
		w.mu.Unlock()
		return
	}
	w.state = s
	w.mu.Unlock()

	w.surf.SetOpen(s == StateOpen)
	w.logger.Debug("widget state changed", "state", s.String())
}

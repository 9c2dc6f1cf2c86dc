// ABOUTME: Process-wide init guard: the widget initializes at most once per process.
// ABOUTME: Repeat calls are silent no-ops; validation failure leaves nothing constructed.

package widget

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/embedchat/embedchat/internal/config"
	"github.com/embedchat/embedchat/internal/surface"
)

// ErrEnvNotConfigured is returned by AutoInit when the declarative
// environment variables are absent.
var ErrEnvNotConfigured = errors.New("chatbot env vars not set")

var guard struct {
	mu sync.Mutex
	w  *Widget
}

// Init merges the given options over the defaults and constructs the
// process-wide widget exactly once. A second call after a successful first
// one is a silent no-op that returns the existing widget: no surface is
// re-mounted, no styles recompiled, no listeners re-bound.
//
// On validation failure an error is logged and returned, nothing is
// constructed, and the guard stays open so a corrected call may succeed.
func Init(cfg config.Config, surf surface.Surface, opts ...Option) (*Widget, error) {
	guard.mu.Lock()
	defer guard.mu.Unlock()

	if guard.w != nil {
		slog.Debug("widget already initialized, ignoring repeat init")
		return guard.w, nil
	}

	merged := config.Default().Merge(cfg)
	w, err := New(merged, surf, opts...)
	if err != nil {
		slog.Error("widget init failed", "error", err)
		return nil, err
	}

	guard.w = w
	return w, nil
}

// AutoInit initializes the widget from the CHATBOT_* environment
// variables, the declarative counterpart of Init. When the variables are
// not set it returns ErrEnvNotConfigured and constructs nothing.
func AutoInit(surf surface.Surface, opts ...Option) (*Widget, error) {
	cfg, ok := config.FromEnv()
	if !ok {
		return nil, ErrEnvNotConfigured
	}
	return Init(cfg, surf, opts...)
}

// Current returns the process-wide widget, or nil before a successful Init.
func Current() *Widget {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	return guard.w
}

// Reset destroys the process-wide widget and reopens the guard. It exists
// for tests and for hosts that deliberately tear the widget down.
func Reset() {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if guard.w != nil {
		guard.w.Destroy()
		guard.w = nil
	}
}

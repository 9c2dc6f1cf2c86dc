// ABOUTME: Opaque unique token generation for bubble handles and session identity.
// ABOUTME: Combines a monotonic counter with a random suffix, independent of wall-clock time.

package ident

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator issues opaque, process-unique tokens. Tokens combine a
// monotonic counter with a random suffix so rapid successive calls can
// never collide, unlike timestamp-derived identifiers.
type Generator struct {
	counter atomic.Uint64
}

// NewGenerator creates a Generator with its counter at zero.
func NewGenerator() *Generator {
	return &Generator{}
}

// Next returns a unique token with the given prefix, e.g. "msg-42-9f3ab1c2".
func (g *Generator) Next(prefix string) string {
	n := g.counter.Add(1)
	return fmt.Sprintf("%s-%d-%s", prefix, n, randSuffix())
}

// NewSessionID returns a fresh sender identifier used to correlate the
// turns of one conversation on the backend. A new one is generated per
// widget instance; there is no cross-run persistence.
func (g *Generator) NewSessionID() string {
	return fmt.Sprintf("visitor-%d-%s", g.counter.Add(1), randSuffix())
}

// randSuffix returns 8 hex characters of randomness from a v4 UUID.
func randSuffix() string {
	u := uuid.New()
	return strings.ReplaceAll(u.String(), "-", "")[:8]
}

// defaultGenerator backs the package-level helpers.
var defaultGenerator = NewGenerator()

// Next returns a unique token with the given prefix from the default generator.
func Next(prefix string) string {
	return defaultGenerator.Next(prefix)
}

// NewSessionID returns a fresh sender identifier from the default generator.
func NewSessionID() string {
	return defaultGenerator.NewSessionID()
}

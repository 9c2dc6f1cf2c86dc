// ABOUTME: Pattern-based reply engine loaded from a TOML script
// ABOUTME: First matching rule wins, with a configurable fallback reply

package botd

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// defaultFallback is used when a script has no fallback of its own.
const defaultFallback = "Thanks for your message! A human will follow up shortly."

// ReplyScript answers incoming messages from an ordered rule list.
type ReplyScript struct {
	Fallback string      `toml:"fallback"`
	Rules    []ReplyRule `toml:"rule"`
}

// ReplyRule maps a case-insensitive substring pattern to a canned reply.
type ReplyRule struct {
	Pattern string `toml:"pattern"`
	Reply   string `toml:"reply"`
}

// LoadReplyScript parses a TOML reply script file.
func LoadReplyScript(path string) (*ReplyScript, error) {
	var script ReplyScript
	if _, err := toml.DecodeFile(path, &script); err != nil {
		return nil, fmt.Errorf("parsing reply script: %w", err)
	}
	if script.Fallback == "" {
		script.Fallback = defaultFallback
	}
	for i, rule := range script.Rules {
		if rule.Pattern == "" {
			return nil, fmt.Errorf("rule %d: pattern is required", i)
		}
	}
	return &script, nil
}

// EchoScript returns a script with no rules, so every message gets the
// fallback. Used when a bot has no replies_path configured.
func EchoScript() *ReplyScript {
	return &ReplyScript{Fallback: defaultFallback}
}

// Reply returns the reply for a message: the first rule whose pattern
// appears in the message (case-insensitive), or the fallback.
func (s *ReplyScript) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range s.Rules {
		if strings.Contains(lower, strings.ToLower(rule.Pattern)) {
			return rule.Reply
		}
	}
	return s.Fallback
}

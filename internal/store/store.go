// ABOUTME: Store interface and data types for the dev backend's conversation ledger.
// ABOUTME: Defines Conversation, Message structs and the Store interface for persistence.

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Conversation links one widget visitor to one bot. A conversation is
// identified by the (webhook_key, sender_id) pair the widget sends with
// every message.
type Conversation struct {
	ID         string
	WebhookKey string
	SenderID   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Role constants for message authorship
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one persisted turn of a conversation.
type Message struct {
	ID             string
	ConversationID string
	Role           string // "user" or "assistant"
	Text           string
	CreatedAt      time.Time
}

// Store is the persistence interface the dev backend works against.
type Store interface {
	// GetOrCreateConversation returns the conversation for the given
	// webhook key and sender, creating it on first contact.
	GetOrCreateConversation(ctx context.Context, webhookKey, senderID string) (*Conversation, error)

	// GetConversation returns a conversation by ID, or ErrNotFound.
	GetConversation(ctx context.Context, id string) (*Conversation, error)

	// ListConversations returns up to limit conversations for a webhook
	// key, most recently updated first.
	ListConversations(ctx context.Context, webhookKey string, limit int) ([]*Conversation, error)

	// SaveMessage appends a message to its conversation and bumps the
	// conversation's updated_at.
	SaveMessage(ctx context.Context, msg *Message) error

	// GetMessages returns up to limit messages of a conversation in
	// chronological order.
	GetMessages(ctx context.Context, conversationID string, limit int) ([]*Message, error)

	// Close releases the underlying resources.
	Close() error
}

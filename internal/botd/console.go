// ABOUTME: Web console for browsing persisted conversations
// ABOUTME: Renders embedded HTML templates, assistant markdown via goldmark

package botd

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/embedchat/embedchat/internal/store"
)

const consoleListLimit = 50

type consoleBotData struct {
	Name          string
	WebhookKey    string
	Conversations []*store.Conversation
}

type consoleData struct {
	Title string
	Bots  []consoleBotData
}

type messageViewData struct {
	Role string
	HTML template.HTML
	Text string
}

type conversationData struct {
	Title        string
	Conversation *store.Conversation
	BotName      string
	Messages     []messageViewData
}

// handleConsole lists conversations grouped by bot.
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	data := consoleData{Title: "Conversations"}

	for _, bc := range s.cfg.Bots {
		convs, err := s.store.ListConversations(r.Context(), bc.WebhookKey, consoleListLimit)
		if err != nil {
			s.logger.Error("failed to list conversations", "error", err, "webhook_key", bc.WebhookKey)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		data.Bots = append(data.Bots, consoleBotData{
			Name:          bc.Name,
			WebhookKey:    bc.WebhookKey,
			Conversations: convs,
		})
	}

	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/console.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render console", "error", err)
	}
}

// handleConversation shows one conversation's transcript. Assistant
// messages are markdown and rendered to HTML; user messages stay plain
// text so visitor input is never interpreted as markup.
func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	conv, err := s.store.GetConversation(r.Context(), id)
	if err == store.ErrNotFound {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("failed to load conversation", "error", err, "conversation_id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	msgs, err := s.store.GetMessages(r.Context(), id, consoleListLimit)
	if err != nil {
		s.logger.Error("failed to load messages", "error", err, "conversation_id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := make([]messageViewData, 0, len(msgs))
	for _, msg := range msgs {
		view := messageViewData{Role: msg.Role, Text: msg.Text}
		if msg.Role == store.RoleAssistant {
			var buf bytes.Buffer
			if err := goldmark.Convert([]byte(msg.Text), &buf); err != nil {
				s.logger.Error("failed to convert markdown", "error", err)
				buf.Reset()
				buf.WriteString("<p>Failed to render message.</p>")
			}
			view.HTML = template.HTML(buf.String())
		}
		views = append(views, view)
	}

	botName := conv.WebhookKey
	if b, ok := s.bots[conv.WebhookKey]; ok && b.cfg.Name != "" {
		botName = b.cfg.Name
	}

	data := conversationData{
		Title:        "Conversation with " + conv.SenderID,
		Conversation: conv,
		BotName:      botName,
		Messages:     views,
	}

	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/conversation.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render conversation", "error", err)
	}
}

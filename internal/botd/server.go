// ABOUTME: HTTP server for the development backend: webhook, auth, console
// ABOUTME: Persists conversations to the store and answers from reply scripts

package botd

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/embedchat/embedchat/internal/dedupe"
	"github.com/embedchat/embedchat/internal/store"
)

const (
	// dedupeTTL bounds how long a retransmitted webhook delivery is
	// recognized as a duplicate.
	dedupeTTL     = 5 * time.Second
	dedupeMaxSize = 1000

	// accessTokenLifetime for tokens minted by the refresh endpoint.
	accessTokenLifetime = 15 * time.Minute
)

// bot pairs a configured chatbot with its loaded reply script.
type bot struct {
	cfg    BotConfig
	script *ReplyScript
}

// Server is the development backend.
type Server struct {
	cfg    Config
	store  store.Store
	bots   map[string]*bot
	dedupe *dedupe.Cache
	logger *slog.Logger
}

// NewServer creates a backend from config, loading each bot's reply
// script. Bots without a replies_path answer with the echo fallback.
func NewServer(cfg Config, st store.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bots := make(map[string]*bot, len(cfg.Bots))
	for _, bc := range cfg.Bots {
		script := EchoScript()
		if bc.RepliesPath != "" {
			loaded, err := LoadReplyScript(bc.RepliesPath)
			if err != nil {
				return nil, fmt.Errorf("loading replies for bot %q: %w", bc.Name, err)
			}
			script = loaded
		}
		bots[bc.WebhookKey] = &bot{cfg: bc, script: script}
	}

	return &Server{
		cfg:    cfg,
		store:  st,
		bots:   bots,
		dedupe: dedupe.New(dedupeTTL, dedupeMaxSize),
		logger: logger.With("component", "botd"),
	}, nil
}

// Close releases server resources. The store is owned by the caller.
func (s *Server) Close() {
	s.dedupe.Close()
}

// RegisterRoutes registers all backend routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /chatbot/webhook/{key}/", s.handleWebhook)
	mux.HandleFunc("POST /auth/refresh/", s.handleAuthRefresh)
	mux.HandleFunc("GET /console", s.handleConsole)
	mux.HandleFunc("GET /console/{id}", s.handleConversation)
}

// Handler returns a mux with all backend routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

type webhookRequest struct {
	Message  string `json:"message"`
	SenderID string `json:"sender_id"`
	UserID   string `json:"user_id"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	b, ok := s.bots[key]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Chatbot not found"})
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Message is required"})
		return
	}

	senderID := req.SenderID
	if senderID == "" {
		senderID = req.UserID
	}
	if senderID == "" {
		senderID = "anonymous"
	}

	reply := b.script.Reply(req.Message)

	// Retransmitted deliveries still get a reply but are persisted once
	if !s.dedupe.CheckAndMark(deliveryKey(key, senderID, req.Message)) {
		if err := s.persistExchange(r, key, senderID, req.Message, reply); err != nil {
			s.logger.Error("failed to persist exchange", "error", err, "webhook_key", key)
		}
	} else {
		s.logger.Debug("duplicate delivery dropped", "webhook_key", key, "sender_id", senderID)
	}

	s.logger.Info("webhook message handled",
		"bot", b.cfg.Name,
		"sender_id", senderID,
		"message_len", len(req.Message))

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// persistExchange records both turns of a webhook exchange.
func (s *Server) persistExchange(r *http.Request, key, senderID, message, reply string) error {
	ctx := r.Context()

	conv, err := s.store.GetOrCreateConversation(ctx, key, senderID)
	if err != nil {
		return fmt.Errorf("resolving conversation: %w", err)
	}

	now := time.Now()
	userMsg := &store.Message{
		ConversationID: conv.ID,
		Role:           store.RoleUser,
		Text:           message,
		CreatedAt:      now,
	}
	if err := s.store.SaveMessage(ctx, userMsg); err != nil {
		return fmt.Errorf("saving user message: %w", err)
	}

	botMsg := &store.Message{
		ConversationID: conv.ID,
		Role:           store.RoleAssistant,
		Text:           reply,
		CreatedAt:      now.Add(time.Millisecond),
	}
	if err := s.store.SaveMessage(ctx, botMsg); err != nil {
		return fmt.Errorf("saving assistant message: %w", err)
	}
	return nil
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// handleAuthRefresh mints a fresh HS256 access token for a valid refresh
// token. The dev backend accepts any non-empty refresh token whose
// subject claim parses; production token validation is out of scope here.
func (s *Server) handleAuthRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Refresh token is required"})
		return
	}

	subject := "dev-user"
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(req.Refresh, claims); err == nil {
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			subject = sub
		}
	}

	now := time.Now()
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(accessTokenLifetime).Unix(),
	})
	signed, err := access.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Token signing failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access": signed})
}

// deliveryKey identifies a webhook delivery for dedupe purposes.
func deliveryKey(webhookKey, senderID, message string) string {
	sum := sha256.Sum256([]byte(message))
	return webhookKey + ":" + senderID + ":" + hex.EncodeToString(sum[:8])
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

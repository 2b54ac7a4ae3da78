package api

import (
	"net/http"

	"github.com/careerbot-labs/careerbot/internal/chat"
	"github.com/careerbot-labs/careerbot/internal/session"
	"github.com/go-chi/chi/v5"
)

// ChatHandler exposes the chat surface for the authenticated session.
type ChatHandler struct {
	chats    *chat.Service
	sessions *session.Manager
}

// NewChatHandler creates the chat surface.
func NewChatHandler(chats *chat.Service, sessions *session.Manager) *ChatHandler {
	return &ChatHandler{chats: chats, sessions: sessions}
}

// RegisterRoutes registers session-protected chat routes. The account
// id used by every operation comes from the resolved session, so a
// request can never address another account's history.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(session.Middleware(h.sessions))
		r.Get("/me", h.Me)
		r.Get("/chat/history", h.History)
		r.Post("/chat/send", h.Send)
		r.Post("/chat/toggle", h.Toggle)
	})
}

// Me reports the current session identity and panel state.
func (h *ChatHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	JSON(w, http.StatusOK, map[string]interface{}{
		"username":  sess.Username,
		"chat_open": sess.ChatOpen(),
	})
}

// History returns the session's message records in creation order.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	JSON(w, http.StatusOK, map[string]interface{}{
		"messages": sess.History(),
	})
}

type sendRequest struct {
	Message string `json:"message"`
}

// Send runs one chat turn. A model failure is non-fatal: history stays
// intact and the client is told to retry. A store failure is fatal to
// the operation and is never reported as a successful save.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := session.FromContext(r.Context())
	reply, err := h.chats.Send(r.Context(), sess, req.Message)
	if err != nil {
		domainError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// Toggle flips the chat-panel visibility for this session.
func (h *ChatHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	JSON(w, http.StatusOK, map[string]bool{"open": sess.ToggleChat()})
}

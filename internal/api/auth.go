package api

import (
	"log/slog"
	"net/http"

	"github.com/careerbot-labs/careerbot/internal/auth"
	"github.com/careerbot-labs/careerbot/internal/chat"
	"github.com/careerbot-labs/careerbot/internal/session"
	"github.com/go-chi/chi/v5"
)

// AuthHandler exposes sign-up, login, and logout.
type AuthHandler struct {
	accounts *auth.Service
	sessions *session.Manager
	chats    *chat.Service
	isDev    bool
}

// NewAuthHandler creates the authentication surface.
func NewAuthHandler(accounts *auth.Service, sessions *session.Manager, chats *chat.Service, isDev bool) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		chats:    chats,
		isDev:    isDev,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup creates a new account. The password only ever crosses this
// handler as an in-memory string; it is never logged.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("Account created", "account_id", account.ID, "username", account.Username)
	JSON(w, http.StatusCreated, map[string]string{"account_id": account.ID})
}

// Login authenticates, opens a session, loads the account's persisted
// history into it, and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		domainError(w, err)
		return
	}

	sess, err := h.sessions.Create(account)
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.chats.LoadHistory(r.Context(), sess); err != nil {
		h.sessions.Destroy(sess.Token)
		domainError(w, err)
		return
	}

	session.SetCookie(w, sess.Token, h.isDev)
	slog.Info("Login", "account_id", account.ID)
	JSON(w, http.StatusOK, map[string]string{"username": account.Username})
}

// Logout destroys the current session, if any. Always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		h.sessions.Destroy(c.Value)
	}
	session.ClearCookie(w, h.isDev)
	JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

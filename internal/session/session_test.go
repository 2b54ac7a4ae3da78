package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careerbot-labs/careerbot/internal/domain"
)

func testAccount() *domain.Account {
	return &domain.Account{ID: "acct-1", Username: "alice"}
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()

	mgr := NewManager(time.Hour)
	sess, err := mgr.Create(testAccount())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("expected a non-empty token")
	}

	got := mgr.Get(sess.Token)
	if got == nil {
		t.Fatal("expected session lookup to succeed")
	}
	if got.AccountID != "acct-1" {
		t.Errorf("expected account acct-1, got %q", got.AccountID)
	}
}

func TestTokensAreUnique(t *testing.T) {
	t.Parallel()

	mgr := NewManager(time.Hour)
	a, err := mgr.Create(testAccount())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b, err := mgr.Create(testAccount())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.Token == b.Token {
		t.Fatal("expected distinct tokens for distinct sessions")
	}
}

func TestDestroy(t *testing.T) {
	t.Parallel()

	mgr := NewManager(time.Hour)
	sess, err := mgr.Create(testAccount())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mgr.Destroy(sess.Token)
	if mgr.Get(sess.Token) != nil {
		t.Fatal("expected destroyed session to be gone")
	}
}

func TestExpireIdle(t *testing.T) {
	t.Parallel()

	mgr := NewManager(time.Minute)
	sess, err := mgr.Create(testAccount())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if n := mgr.ExpireIdle(time.Now()); n != 0 {
		t.Fatalf("expected no expiry for a fresh session, got %d", n)
	}

	if n := mgr.ExpireIdle(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("expected 1 expired session, got %d", n)
	}
	if mgr.Get(sess.Token) != nil {
		t.Fatal("expected expired session to be gone")
	}
}

func TestToggleChat(t *testing.T) {
	t.Parallel()

	mgr := NewManager(time.Hour)
	sess, err := mgr.Create(testAccount())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if sess.ChatOpen() {
		t.Fatal("expected chat panel closed by default")
	}
	if !sess.ToggleChat() {
		t.Fatal("expected first toggle to open the panel")
	}
	if sess.ToggleChat() {
		t.Fatal("expected second toggle to close the panel")
	}
}

func TestHistoryMirror(t *testing.T) {
	t.Parallel()

	mgr := NewManager(time.Hour)
	sess, err := mgr.Create(testAccount())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	sess.SetHistory([]domain.Message{
		{Role: domain.RoleUser, Text: "hi"},
		{Role: domain.RoleAssistant, Text: "hello"},
	})
	sess.AppendExchange(
		domain.Message{Role: domain.RoleUser, Text: "more"},
		domain.Message{Role: domain.RoleAssistant, Text: "sure"},
	)

	history := sess.History()
	if len(history) != 4 {
		t.Fatalf("expected 4 mirrored records, got %d", len(history))
	}
	if history[3].Text != "sure" {
		t.Errorf("unexpected final record: %q", history[3].Text)
	}

	// Mutating the returned slice must not affect the mirror.
	history[0].Text = "tampered"
	if sess.History()[0].Text != "hi" {
		t.Error("History returned a live reference to the mirror")
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	mgr := NewManager(time.Hour)
	sess, err := mgr.Create(testAccount())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	handler := Middleware(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := FromContext(r.Context())
		if got == nil || got.AccountID != "acct-1" {
			t.Error("expected session in request context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	// No cookie.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without cookie, got %d", w.Code)
	}

	// Bogus token.
	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "bogus"})
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown token, got %d", w.Code)
	}

	// Live session.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: sess.Token})
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with live session, got %d", w.Code)
	}
}

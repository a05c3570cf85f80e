package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret", time.Hour)
}

func TestMiddlewareValidToken(t *testing.T) {
	mgr := newTestManager()
	token, _ := mgr.GenerateSpectatorToken("game-42", "viewer")

	var capturedGameID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedGameID = GameIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Middleware(mgr)(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if capturedGameID != "game-42" {
		t.Errorf("expected game_id=game-42, got %s", capturedGameID)
	}
}

func TestMiddlewareQueryToken(t *testing.T) {
	mgr := newTestManager()
	token, _ := mgr.GenerateSpectatorToken("game-7", "viewer")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GameIDFromContext(r.Context()) != "game-7" {
			t.Error("expected claims from the query token")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	rec := httptest.NewRecorder()
	Middleware(mgr)(inner).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMiddlewareMissingToken(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	handler := Middleware(newTestManager())(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewareBadFormat(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})
	handler := Middleware(newTestManager())(inner)

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "Token abc123"},
		{"bearer only", "Bearer"},
		{"empty value", "Bearer "},
		{"garbage token", "Bearer invalid.jwt.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestMiddlewareCaseInsensitiveBearer(t *testing.T) {
	mgr := newTestManager()
	token, _ := mgr.GenerateSpectatorToken("game-1", "viewer")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()

	Middleware(mgr)(inner).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for lowercase bearer, got %d", rec.Code)
	}
}

func TestGameIDFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if id := GameIDFromContext(req.Context()); id != "" {
		t.Errorf("expected empty game ID from context without auth, got %s", id)
	}
}

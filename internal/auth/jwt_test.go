package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateSpectatorToken(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-123", time.Hour)
	token, err := mgr.GenerateSpectatorToken("game-42", "viewer-1")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.GameID != "game-42" {
		t.Errorf("expected game_id=game-42, got %s", claims.GameID)
	}
	if claims.Subject != "viewer-1" || claims.Role != RoleSpectator {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestAuthorize(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	token, _ := mgr.GenerateSpectatorToken("game-1", "viewer")

	if _, err := mgr.Authorize(token, "game-1"); err != nil {
		t.Errorf("token should authorize its own game: %v", err)
	}
	if _, err := mgr.Authorize(token, "game-2"); !errors.Is(err, ErrWrongGame) {
		t.Errorf("expected ErrWrongGame, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	mgr1 := NewJWTManager("secret-one", time.Hour)
	mgr2 := NewJWTManager("secret-two", time.Hour)

	token, err := mgr1.GenerateSpectatorToken("game-1", "viewer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := mgr2.ValidateToken(token); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	if _, err := mgr.ValidateToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
	if _, err := mgr.ValidateToken(""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken for empty token, got %v", err)
	}
}

func TestValidateTokenWrongRole(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	claims := &Claims{
		GameID: "game-1",
		Role:   "player",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := mgr.ValidateToken(token); err == nil {
		t.Error("only spectator tokens should validate")
	}
}

func TestExpiredToken(t *testing.T) {
	mgr := &JWTManager{secret: []byte("test-secret"), expiry: -1 * time.Second}
	token, err := mgr.GenerateSpectatorToken("game-1", "viewer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := mgr.ValidateToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestNewJWTManagerDefaultExpiry(t *testing.T) {
	mgr := NewJWTManager("s", 0)
	if mgr.expiry != 12*time.Hour {
		t.Errorf("expected 12h default expiry, got %v", mgr.expiry)
	}
}

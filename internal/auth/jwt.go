package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
	ErrWrongGame    = errors.New("token is not valid for this game")
)

// RoleSpectator is the only role a token can carry: it may read a game's
// snapshots and events but never send commands.
const RoleSpectator = "spectator"

// Claims holds the JWT payload.
type Claims struct {
	GameID string `json:"game_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager handles token creation and validation.
type JWTManager struct {
	secret []byte
	expiry time.Duration
}

// NewJWTManager creates a JWTManager with the given secret. A non-positive
// expiry falls back to twelve hours.
func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	if expiry <= 0 {
		expiry = 12 * time.Hour
	}
	return &JWTManager{secret: []byte(secret), expiry: expiry}
}

// GenerateSpectatorToken creates a token that lets viewer watch gameID.
func (m *JWTManager) GenerateSpectatorToken(gameID, viewer string) (string, error) {
	now := time.Now()
	claims := &Claims{
		GameID: gameID,
		Role:   RoleSpectator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   viewer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT string, returning the claims.
func (m *JWTManager) ValidateToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != RoleSpectator || claims.GameID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authorize validates tokenStr and checks that it was issued for gameID.
func (m *JWTManager) Authorize(tokenStr, gameID string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.GameID != gameID {
		return nil, ErrWrongGame
	}
	return claims, nil
}

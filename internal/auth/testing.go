package auth

import "context"

// SetGameIDForTest injects spectator claims for gameID into the context.
func SetGameIDForTest(ctx context.Context, gameID string) context.Context {
	return context.WithValue(ctx, claimsKey, &Claims{GameID: gameID, Role: RoleSpectator})
}

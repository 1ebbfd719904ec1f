package auth

import "context"

// TokenResolver resuelve un token opaco y devuelve claims o error.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (Claims, error)
}

package accounts

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context, filter ListFilter) ([]User, error)
}

// ListFilter: rol vacío => sin filtrar. Match exacto, no parcial.
type ListFilter struct {
	Rol string
}

// TokenRepository guarda la asociación token -> usuario.
type TokenRepository interface {
	// GetOrCreate devuelve el token existente del usuario o registra fresh
	// como su token. Debe ser atómico: dos logins concurrentes del mismo
	// usuario reciben la misma key.
	GetOrCreate(ctx context.Context, userID, fresh string) (Token, error)
	GetByKey(ctx context.Context, key string) (Token, error)
}

package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"vet-clinic-backend/internal/domain/accounts"
)

var ErrNotFound = errors.New("not found")

type accountsRepo struct {
	mu   sync.RWMutex
	byID map[string]accounts.User
}

func NewAccountsRepo() accounts.Repository {
	return &accountsRepo{
		byID: make(map[string]accounts.User),
	}
}

func (r *accountsRepo) Create(ctx context.Context, u accounts.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	for _, other := range r.byID {
		if other.Email == u.Email || other.Username == u.Username {
			return accounts.ErrDuplicate
		}
	}

	r.byID[u.ID] = u
	return nil
}

func (r *accountsRepo) Update(ctx context.Context, u accounts.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[u.ID]; !exists {
		return ErrNotFound
	}
	for id, other := range r.byID {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email || other.Username == u.Username {
			return accounts.ErrDuplicate
		}
	}

	r.byID[u.ID] = u
	return nil
}

func (r *accountsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (accounts.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return accounts.User{}, ErrNotFound
	}
	return u, nil
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (accounts.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// El email se compara tal como se guardó, sin normalizar mayúsculas.
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return accounts.User{}, ErrNotFound
}

func (r *accountsRepo) GetByUsername(ctx context.Context, username string) (accounts.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return accounts.User{}, ErrNotFound
}

func (r *accountsRepo) List(ctx context.Context, filter accounts.ListFilter) ([]accounts.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]accounts.User, 0, len(r.byID))
	for _, u := range r.byID {
		if filter.Rol != "" && string(u.Rol) != filter.Rol {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

type tokensRepo struct {
	mu     sync.Mutex
	byKey  map[string]accounts.Token
	byUser map[string]string // userID -> key
}

func NewTokensRepo() accounts.TokenRepository {
	return &tokensRepo{
		byKey:  make(map[string]accounts.Token),
		byUser: make(map[string]string),
	}
}

// GetOrCreate es atómico bajo el mutex: dos logins concurrentes del mismo
// usuario obtienen la misma key, nunca dos tokens distintos.
func (r *tokensRepo) GetOrCreate(ctx context.Context, userID, fresh string) (accounts.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if key, ok := r.byUser[userID]; ok {
		return r.byKey[key], nil
	}

	t := accounts.Token{
		Key:       fresh,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	r.byKey[fresh] = t
	r.byUser[userID] = fresh
	return t, nil
}

func (r *tokensRepo) GetByKey(ctx context.Context, key string) (accounts.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byKey[key]
	if !ok {
		return accounts.Token{}, ErrNotFound
	}
	return t, nil
}

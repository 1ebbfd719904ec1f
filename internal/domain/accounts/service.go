package accounts

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vet-clinic-backend/internal/ports/auth"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrMissingCredentials = errors.New("se requiere identificador y contraseña")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrDuplicate          = errors.New("email or username already in use")
)

type Service struct {
	users  Repository
	tokens TokenRepository
	now    func() time.Time
}

func NewService(users Repository, tokens TokenRepository) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		now:    time.Now,
	}
}

// Authenticate verifica identifier (email o username) + password contra el
// almacén de identidades. Solo lee; nunca muta usuarios ni tokens.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return User{}, ErrMissingCredentials
	}

	// Primero intentamos con email.
	u, err := s.users.GetByEmail(ctx, identifier)
	if err != nil && !strings.Contains(identifier, "@") {
		// Fallback: buscar por username y reintentar con su email canónico.
		if byName, nameErr := s.users.GetByUsername(ctx, identifier); nameErr == nil {
			u, err = s.users.GetByEmail(ctx, byName.Email)
		}
	}
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// IssueToken devuelve el token del usuario, creándolo si no existe.
// Emisión idempotente: re-login devuelve la misma key.
func (s *Service) IssueToken(ctx context.Context, userID string) (Token, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Token{}, ErrInvalidInput
	}

	fresh, err := newTokenKey()
	if err != nil {
		return Token{}, err
	}
	return s.tokens.GetOrCreate(ctx, userID, fresh)
}

// Login combina autenticación + emisión de token.
func (s *Service) Login(ctx context.Context, identifier, password string) (User, Token, error) {
	u, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return User{}, Token{}, err
	}
	t, err := s.IssueToken(ctx, u.ID)
	if err != nil {
		return User{}, Token{}, err
	}
	return u, t, nil
}

// ResolveToken implementa auth.TokenResolver para el middleware HTTP.
func (s *Service) ResolveToken(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidCredentials
	}

	t, err := s.tokens.GetByKey(ctx, token)
	if err != nil {
		return auth.Claims{}, ErrInvalidCredentials
	}
	u, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		return auth.Claims{}, ErrInvalidCredentials
	}

	return auth.Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Nombre:   u.Nombre(),
		Rol:      string(u.Rol),
	}, nil
}

type CreateInput struct {
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Password     string
	Rol          string
	Telefono     string
	Especialidad string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	rol := Role(strings.TrimSpace(in.Rol))

	if username == "" || email == "" || in.Password == "" {
		return User{}, ErrInvalidInput
	}
	if !strings.Contains(email, "@") {
		return User{}, ErrInvalidInput
	}
	if !rol.Valid() {
		return User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		Rol:          rol,
		Telefono:     strings.TrimSpace(in.Telefono),
		Especialidad: strings.TrimSpace(in.Especialidad),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	Username     *string
	Email        *string
	FirstName    *string
	LastName     *string
	Password     *string
	Rol          *string
	Telefono     *string
	Especialidad *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return User{}, ErrNotFound
	}

	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		if v == "" {
			return User{}, ErrInvalidInput
		}
		u.Username = v
	}
	if in.Email != nil {
		v := strings.TrimSpace(*in.Email)
		if v == "" || !strings.Contains(v, "@") {
			return User{}, ErrInvalidInput
		}
		u.Email = v
	}
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Rol != nil {
		rol := Role(strings.TrimSpace(*in.Rol))
		if !rol.Valid() {
			return User{}, ErrInvalidInput
		}
		u.Rol = rol
	}
	if in.Telefono != nil {
		u.Telefono = strings.TrimSpace(*in.Telefono)
	}
	if in.Especialidad != nil {
		u.Especialidad = strings.TrimSpace(*in.Especialidad)
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		u.PasswordHash = string(hash)
	}

	u.UpdatedAt = s.now()

	if err := s.users.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]User, error) {
	return s.users.List(ctx, filter)
}

// newTokenKey genera una key opaca de 40 hex chars (20 bytes aleatorios).
func newTokenKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

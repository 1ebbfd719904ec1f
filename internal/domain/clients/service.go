package clients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type Input struct {
	Nombre    string
	Apellido  string
	Email     string
	Telefono  string
	Direccion string
}

func (s *Service) Create(ctx context.Context, in Input) (Client, error) {
	if strings.TrimSpace(in.Nombre) == "" || strings.TrimSpace(in.Apellido) == "" {
		return Client{}, ErrInvalidInput
	}

	now := s.now()
	c := Client{
		ID:        uuid.NewString(),
		Nombre:    strings.TrimSpace(in.Nombre),
		Apellido:  strings.TrimSpace(in.Apellido),
		Email:     strings.TrimSpace(in.Email),
		Telefono:  strings.TrimSpace(in.Telefono),
		Direccion: strings.TrimSpace(in.Direccion),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Client, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Client{}, ErrNotFound
	}
	if strings.TrimSpace(in.Nombre) == "" || strings.TrimSpace(in.Apellido) == "" {
		return Client{}, ErrInvalidInput
	}

	c.Nombre = strings.TrimSpace(in.Nombre)
	c.Apellido = strings.TrimSpace(in.Apellido)
	c.Email = strings.TrimSpace(in.Email)
	c.Telefono = strings.TrimSpace(in.Telefono)
	c.Direccion = strings.TrimSpace(in.Direccion)
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

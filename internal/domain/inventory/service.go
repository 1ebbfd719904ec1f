package inventory

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
	Nombre       string
	Descripcion  string
	Cantidad     int
	NivelReorden *int // nil => default 10
	Precio       float64
}

func (s *Service) Create(ctx context.Context, in Input) (Item, error) {
	if strings.TrimSpace(in.Nombre) == "" {
		return Item{}, ErrInvalidInput
	}
	if in.Cantidad < 0 || in.Precio < 0 {
		return Item{}, ErrInvalidInput
	}

	nivel := 10
	if in.NivelReorden != nil {
		if *in.NivelReorden < 0 {
			return Item{}, ErrInvalidInput
		}
		nivel = *in.NivelReorden
	}

	now := s.now()
	it := Item{
		ID:           uuid.NewString(),
		Nombre:       strings.TrimSpace(in.Nombre),
		Descripcion:  strings.TrimSpace(in.Descripcion),
		Cantidad:     in.Cantidad,
		NivelReorden: nivel,
		Precio:       in.Precio,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, ErrNotFound
	}
	if strings.TrimSpace(in.Nombre) == "" || in.Cantidad < 0 || in.Precio < 0 {
		return Item{}, ErrInvalidInput
	}

	it.Nombre = strings.TrimSpace(in.Nombre)
	it.Descripcion = strings.TrimSpace(in.Descripcion)
	it.Cantidad = in.Cantidad
	if in.NivelReorden != nil {
		if *in.NivelReorden < 0 {
			return Item{}, ErrInvalidInput
		}
		it.NivelReorden = *in.NivelReorden
	}
	it.Precio = in.Precio
	it.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
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

func (s *Service) GetByID(ctx context.Context, id string) (Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

package pets

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
	OwnerID         string
	Nombre          string
	Especie         string
	Raza            string
	FechaNacimiento *time.Time
	Sexo            string
}

func (s *Service) Create(ctx context.Context, in Input) (Pet, error) {
	if strings.TrimSpace(in.OwnerID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Nombre) == "" || strings.TrimSpace(in.Especie) == "" {
		return Pet{}, ErrInvalidInput
	}

	sexo := strings.TrimSpace(in.Sexo)
	if sexo == "" {
		sexo = "Desconocido"
	}

	now := s.now()
	p := Pet{
		ID:              uuid.NewString(),
		OwnerID:         strings.TrimSpace(in.OwnerID),
		Nombre:          strings.TrimSpace(in.Nombre),
		Especie:         strings.TrimSpace(in.Especie),
		Raza:            strings.TrimSpace(in.Raza),
		FechaNacimiento: in.FechaNacimiento,
		Sexo:            sexo,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, ErrNotFound
	}
	if strings.TrimSpace(in.OwnerID) == "" || strings.TrimSpace(in.Nombre) == "" {
		return Pet{}, ErrInvalidInput
	}

	p.OwnerID = strings.TrimSpace(in.OwnerID)
	p.Nombre = strings.TrimSpace(in.Nombre)
	p.Especie = strings.TrimSpace(in.Especie)
	p.Raza = strings.TrimSpace(in.Raza)
	p.FechaNacimiento = in.FechaNacimiento
	if strings.TrimSpace(in.Sexo) != "" {
		p.Sexo = strings.TrimSpace(in.Sexo)
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
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

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Pet, error) {
	return s.repo.List(ctx, filter)
}

// PetName expone el nombre de la mascota (lo consumen citas y registros).
func (s *Service) PetName(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.Nombre, nil
}

// CountBySpecies expone el agregado que consume el generador de reportes.
func (s *Service) CountBySpecies(ctx context.Context) (map[string]int, error) {
	return s.repo.CountBySpecies(ctx)
}

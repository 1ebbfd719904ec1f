package appointments

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
	// ErrStatusConflict: otra operación cambió el estado entre la lectura
	// y la escritura. El caller debe tratarlo como rechazo de cliente.
	ErrStatusConflict = errors.New("la cita fue modificada por otra operación")
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

type CreateInput struct {
	PetID       string
	VetID       string
	ScheduledAt time.Time
	Reason      string
	Status      string // opcional; default PENDIENTE
	Notes       string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return Appointment{}, ErrInvalidInput
	}
	if in.ScheduledAt.IsZero() {
		return Appointment{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Reason) == "" {
		return Appointment{}, ErrInvalidInput
	}

	status := StatusPendiente
	if strings.TrimSpace(in.Status) != "" {
		parsed, err := ParseStatus(strings.TrimSpace(in.Status))
		if err != nil {
			return Appointment{}, err
		}
		status = parsed
	}

	now := s.now()
	a := Appointment{
		ID:          uuid.NewString(),
		PetID:       petID,
		VetID:       strings.TrimSpace(in.VetID),
		ScheduledAt: in.ScheduledAt,
		Reason:      strings.TrimSpace(in.Reason),
		Status:      status,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
// Si Status es nil el request no es una transición de estado y la máquina
// de estados no interviene.
type UpdateInput struct {
	VetID       *string
	ScheduledAt *time.Time
	Reason      *string
	Status      *string
	Notes       *string
}

// Update aplica un partial update. Si viene estado, lo valida contra la
// máquina de transiciones y escribe condicionado al estado leído para
// cerrar la carrera read-check-write entre requests concurrentes.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, ErrNotFound
	}
	expected := a.Status

	if in.Status != nil {
		next, err := ParseStatus(strings.TrimSpace(*in.Status))
		if err != nil {
			return Appointment{}, err
		}
		if err := CanTransition(a.Status, next); err != nil {
			return Appointment{}, err
		}
		a.Status = next
	}

	if in.VetID != nil {
		a.VetID = strings.TrimSpace(*in.VetID)
	}
	if in.ScheduledAt != nil {
		if in.ScheduledAt.IsZero() {
			return Appointment{}, ErrInvalidInput
		}
		a.ScheduledAt = *in.ScheduledAt
	}
	if in.Reason != nil {
		v := strings.TrimSpace(*in.Reason)
		if v == "" {
			return Appointment{}, ErrInvalidInput
		}
		a.Reason = v
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}

	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a, expected); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	return s.repo.List(ctx)
}

// ClearVet se invoca al eliminar un usuario veterinario.
func (s *Service) ClearVet(ctx context.Context, vetID string) error {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return ErrInvalidInput
	}
	return s.repo.ClearVet(ctx, vetID)
}

// DeleteByPet se invoca al eliminar una mascota (cascada).
func (s *Service) DeleteByPet(ctx context.Context, petID string) error {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteByPet(ctx, petID)
}

// CountByStatus expone el agregado que consume el generador de reportes.
func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}

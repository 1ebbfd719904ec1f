package medical

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
	records  RecordRepository
	vaccines VaccineRepository
	now      func() time.Time
}

func NewService(records RecordRepository, vaccines VaccineRepository) *Service {
	return &Service{
		records:  records,
		vaccines: vaccines,
		now:      time.Now,
	}
}

type RecordInput struct {
	PetID            string
	VetID            string
	Sintomas         string
	Diagnostico      string
	Tratamiento      string
	Medicamentos     string
	FechaSeguimiento *time.Time
}

func (s *Service) CreateRecord(ctx context.Context, in RecordInput) (Record, error) {
	if strings.TrimSpace(in.PetID) == "" {
		return Record{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Diagnostico) == "" || strings.TrimSpace(in.Tratamiento) == "" {
		return Record{}, ErrInvalidInput
	}

	now := s.now()
	rec := Record{
		ID:               uuid.NewString(),
		PetID:            strings.TrimSpace(in.PetID),
		VetID:            strings.TrimSpace(in.VetID),
		Sintomas:         strings.TrimSpace(in.Sintomas),
		Diagnostico:      strings.TrimSpace(in.Diagnostico),
		Tratamiento:      strings.TrimSpace(in.Tratamiento),
		Medicamentos:     strings.TrimSpace(in.Medicamentos),
		FechaSeguimiento: in.FechaSeguimiento,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.records.Create(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) UpdateRecord(ctx context.Context, id string, in RecordInput) (Record, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return Record{}, ErrNotFound
	}
	if strings.TrimSpace(in.Diagnostico) == "" || strings.TrimSpace(in.Tratamiento) == "" {
		return Record{}, ErrInvalidInput
	}

	rec.VetID = strings.TrimSpace(in.VetID)
	rec.Sintomas = strings.TrimSpace(in.Sintomas)
	rec.Diagnostico = strings.TrimSpace(in.Diagnostico)
	rec.Tratamiento = strings.TrimSpace(in.Tratamiento)
	rec.Medicamentos = strings.TrimSpace(in.Medicamentos)
	rec.FechaSeguimiento = in.FechaSeguimiento
	rec.UpdatedAt = s.now()

	if err := s.records.Update(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Service) GetRecord(ctx context.Context, id string) (Record, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context, filter ListFilter) ([]Record, error) {
	return s.records.List(ctx, filter)
}

type VaccineInput struct {
	PetID               string
	Nombre              string
	FechaAdministracion *time.Time
	ProximaFecha        *time.Time
	Notas               string
}

// CreateVaccine valida los campos obligatorios acumulando el detalle por
// campo, como espera el cliente del endpoint de vacunas.
func (s *Service) CreateVaccine(ctx context.Context, in VaccineInput) (Vaccine, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.PetID) == "" {
		fields["mascota"] = "Este campo es obligatorio."
	}
	if strings.TrimSpace(in.Nombre) == "" {
		fields["nombre"] = "Este campo es obligatorio."
	}
	if in.FechaAdministracion == nil || in.FechaAdministracion.IsZero() {
		fields["fecha_administracion"] = "Este campo es obligatorio."
	}
	if len(fields) > 0 {
		return Vaccine{}, &ValidationError{Fields: fields}
	}

	v := Vaccine{
		ID:                  uuid.NewString(),
		PetID:               strings.TrimSpace(in.PetID),
		Nombre:              strings.TrimSpace(in.Nombre),
		FechaAdministracion: *in.FechaAdministracion,
		ProximaFecha:        in.ProximaFecha,
		Notas:               strings.TrimSpace(in.Notas),
		CreatedAt:           s.now(),
	}

	if err := s.vaccines.Create(ctx, v); err != nil {
		return Vaccine{}, err
	}
	return v, nil
}

func (s *Service) UpdateVaccine(ctx context.Context, id string, in VaccineInput) (Vaccine, error) {
	v, err := s.vaccines.GetByID(ctx, id)
	if err != nil {
		return Vaccine{}, ErrNotFound
	}
	if strings.TrimSpace(in.Nombre) == "" {
		return Vaccine{}, ErrInvalidInput
	}

	v.Nombre = strings.TrimSpace(in.Nombre)
	if in.FechaAdministracion != nil && !in.FechaAdministracion.IsZero() {
		v.FechaAdministracion = *in.FechaAdministracion
	}
	v.ProximaFecha = in.ProximaFecha
	v.Notas = strings.TrimSpace(in.Notas)

	if err := s.vaccines.Update(ctx, v); err != nil {
		return Vaccine{}, err
	}
	return v, nil
}

func (s *Service) DeleteVaccine(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.vaccines.Delete(ctx, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Service) GetVaccine(ctx context.Context, id string) (Vaccine, error) {
	return s.vaccines.GetByID(ctx, id)
}

func (s *Service) ListVaccines(ctx context.Context, filter ListFilter) ([]Vaccine, error) {
	return s.vaccines.List(ctx, filter)
}

// ClearVet anula la referencia al veterinario en los registros (SET NULL).
func (s *Service) ClearVet(ctx context.Context, vetID string) error {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return ErrInvalidInput
	}
	return s.records.ClearVet(ctx, vetID)
}

// DeleteByPet elimina registros y vacunas de la mascota (cascada).
func (s *Service) DeleteByPet(ctx context.Context, petID string) error {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return ErrInvalidInput
	}
	if err := s.records.DeleteByPet(ctx, petID); err != nil {
		return err
	}
	return s.vaccines.DeleteByPet(ctx, petID)
}

// CountVaccines expone el agregado que consume el generador de reportes.
func (s *Service) CountVaccines(ctx context.Context) (int, error) {
	return s.vaccines.Count(ctx)
}

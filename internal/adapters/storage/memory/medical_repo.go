package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"vet-clinic-backend/internal/domain/medical"
)

type recordsRepo struct {
	mu   sync.RWMutex
	byID map[string]medical.Record
}

func NewMedicalRecordsRepo() medical.RecordRepository {
	return &recordsRepo{
		byID: make(map[string]medical.Record),
	}
}

func (r *recordsRepo) Create(ctx context.Context, rec medical.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("record already exists")
	}

	r.byID[rec.ID] = rec
	return nil
}

func (r *recordsRepo) Update(ctx context.Context, rec medical.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rec.ID]; !exists {
		return ErrNotFound
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *recordsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *recordsRepo) GetByID(ctx context.Context, id string) (medical.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return medical.Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *recordsRepo) List(ctx context.Context, filter medical.ListFilter) ([]medical.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medical.Record, 0, len(r.byID))
	for _, rec := range r.byID {
		if filter.Pet != "" && rec.PetID != filter.Pet {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *recordsRepo) ClearVet(ctx context.Context, vetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rec := range r.byID {
		if rec.VetID == vetID {
			rec.VetID = ""
			r.byID[id] = rec
		}
	}
	return nil
}

func (r *recordsRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rec := range r.byID {
		if rec.PetID == petID {
			delete(r.byID, id)
		}
	}
	return nil
}

type vaccinesRepo struct {
	mu   sync.RWMutex
	byID map[string]medical.Vaccine
}

func NewVaccinesRepo() medical.VaccineRepository {
	return &vaccinesRepo{
		byID: make(map[string]medical.Vaccine),
	}
}

func (r *vaccinesRepo) Create(ctx context.Context, v medical.Vaccine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == "" {
		return errors.New("vaccine id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("vaccine already exists")
	}

	r.byID[v.ID] = v
	return nil
}

func (r *vaccinesRepo) Update(ctx context.Context, v medical.Vaccine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[v.ID]; !exists {
		return ErrNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *vaccinesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *vaccinesRepo) GetByID(ctx context.Context, id string) (medical.Vaccine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return medical.Vaccine{}, ErrNotFound
	}
	return v, nil
}

func (r *vaccinesRepo) List(ctx context.Context, filter medical.ListFilter) ([]medical.Vaccine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medical.Vaccine, 0, len(r.byID))
	for _, v := range r.byID {
		if filter.Pet != "" && v.PetID != filter.Pet {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FechaAdministracion.Before(out[j].FechaAdministracion)
	})
	return out, nil
}

func (r *vaccinesRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, v := range r.byID {
		if v.PetID == petID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *vaccinesRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID), nil
}

package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"vet-clinic-backend/internal/domain/appointments"
)

type appointmentsRepo struct {
	mu   sync.RWMutex
	byID map[string]appointments.Appointment
}

func NewAppointmentsRepo() appointments.Repository {
	return &appointmentsRepo{
		byID: make(map[string]appointments.Appointment),
	}
}

func (r *appointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("appointment already exists")
	}

	r.byID[a.ID] = a
	return nil
}

func (r *appointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *appointmentsRepo) List(ctx context.Context) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointments.Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

// Update hace check-and-write bajo el mismo lock: si el estado almacenado ya
// no es expected, otra request transicionó primero y nada se escribe.
func (r *appointmentsRepo) Update(ctx context.Context, a appointments.Appointment, expected appointments.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[a.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Status != expected {
		return appointments.ErrStatusConflict
	}

	r.byID[a.ID] = a
	return nil
}

func (r *appointmentsRepo) ClearVet(ctx context.Context, vetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.byID {
		if a.VetID == vetID {
			a.VetID = ""
			r.byID[id] = a
		}
	}
	return nil
}

func (r *appointmentsRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.byID {
		if a.PetID == petID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *appointmentsRepo) CountByStatus(ctx context.Context) (map[appointments.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[appointments.Status]int)
	for _, a := range r.byID {
		out[a.Status]++
	}
	return out, nil
}

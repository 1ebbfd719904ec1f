package appointments

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Appointment

	// fuerza ErrStatusConflict en el próximo Update, simulando una
	// transición concurrente entre GetByID y Update.
	conflictOnce bool
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Appointment{}}
}

func (r *testRepo) Create(ctx context.Context, a Appointment) error {
	if _, ok := r.byID[a.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, errRepoNotFound
	}
	return a, nil
}

func (r *testRepo) List(ctx context.Context) ([]Appointment, error) {
	out := make([]Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, a Appointment, expected Status) error {
	stored, ok := r.byID[a.ID]
	if !ok {
		return errRepoNotFound
	}
	if r.conflictOnce {
		r.conflictOnce = false
		return ErrStatusConflict
	}
	if stored.Status != expected {
		return ErrStatusConflict
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) ClearVet(ctx context.Context, vetID string) error {
	for id, a := range r.byID {
		if a.VetID == vetID {
			a.VetID = ""
			r.byID[id] = a
		}
	}
	return nil
}

func (r *testRepo) DeleteByPet(ctx context.Context, petID string) error {
	for id, a := range r.byID {
		if a.PetID == petID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *testRepo) CountByStatus(ctx context.Context) (map[Status]int, error) {
	out := make(map[Status]int)
	for _, a := range r.byID {
		out[a.Status]++
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, svc *Service, status string) Appointment {
	t.Helper()
	a, err := svc.Create(context.Background(), CreateInput{
		PetID:       "pet-1",
		VetID:       "vet-1",
		ScheduledAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Reason:      "control anual",
		Status:      status,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return a
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsToPendiente(t *testing.T) {
	svc := NewService(newTestRepo())

	a := mustCreate(t, svc, "")
	if a.Status != StatusPendiente {
		t.Fatalf("expected PENDIENTE, got %s", a.Status)
	}
}

func TestService_Create_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), CreateInput{
		PetID:       "pet-1",
		ScheduledAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Reason:      "control",
		Status:      "EN_PROCESO",
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestService_Update_TransitionMatrix(t *testing.T) {
	all := []Status{StatusPendiente, StatusConfirmada, StatusCompletada, StatusCancelada}

	for _, from := range all {
		for _, to := range all {
			wantOK := !from.Terminal() || to == from

			repo := newTestRepo()
			svc := NewService(repo)
			a := mustCreate(t, svc, string(from))

			_, err := svc.Update(context.Background(), a.ID, UpdateInput{
				Status: strPtr(string(to)),
			})

			if wantOK && err != nil {
				t.Errorf("%s -> %s: expected ok, got %v", from, to, err)
			}
			if !wantOK {
				if !errors.Is(err, ErrTerminalState) {
					t.Errorf("%s -> %s: expected ErrTerminalState, got %v", from, to, err)
				}
			}
		}
	}
}

func TestService_Update_TerminalMessageNamesCurrentState(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	a := mustCreate(t, svc, string(StatusCancelada))

	_, err := svc.Update(context.Background(), a.ID, UpdateInput{
		Status: strPtr(string(StatusPendiente)),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	want := "no se puede cambiar el estado de una cita cancelada"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestService_Update_ReopenAfterCompleted_Rejected(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	a := mustCreate(t, svc, string(StatusPendiente))

	for _, next := range []Status{StatusConfirmada, StatusCompletada} {
		if _, err := svc.Update(context.Background(), a.ID, UpdateInput{Status: strPtr(string(next))}); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	_, err := svc.Update(context.Background(), a.ID, UpdateInput{
		Status: strPtr(string(StatusPendiente)),
	})
	if !errors.Is(err, ErrTerminalState) {
		t.Fatalf("expected ErrTerminalState reopening completed cita, got %v", err)
	}
}

func TestService_Update_UnknownStatus_Rejected(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	a := mustCreate(t, svc, string(StatusPendiente))

	_, err := svc.Update(context.Background(), a.ID, UpdateInput{
		Status: strPtr("ARCHIVADA"),
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

// Sin campo estado el update no pasa por la máquina de estados: los otros
// campos se actualizan aunque la cita esté en estado terminal.
func TestService_Update_WithoutStatus_SkipsStateMachine(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	a := mustCreate(t, svc, string(StatusCancelada))

	got, err := svc.Update(context.Background(), a.ID, UpdateInput{
		Notes: strPtr("reagendar en primavera"),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Notes != "reagendar en primavera" {
		t.Fatalf("expected notes updated, got %q", got.Notes)
	}
	if got.Status != StatusCancelada {
		t.Fatalf("expected status untouched, got %s", got.Status)
	}
}

func TestService_Update_BumpsUpdatedAt(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	updated := created.Add(45 * time.Minute)

	svc.now = func() time.Time { return created }
	a := mustCreate(t, svc, string(StatusPendiente))

	svc.now = func() time.Time { return updated }
	got, err := svc.Update(context.Background(), a.ID, UpdateInput{
		Status: strPtr(string(StatusConfirmada)),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.UpdatedAt != updated {
		t.Fatalf("expected UpdatedAt %v, got %v", updated, got.UpdatedAt)
	}
	if got.CreatedAt != created {
		t.Fatalf("expected CreatedAt untouched")
	}
}

func TestService_Update_ConcurrentTransition_Conflict(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	a := mustCreate(t, svc, string(StatusPendiente))

	repo.conflictOnce = true
	_, err := svc.Update(context.Background(), a.ID, UpdateInput{
		Status: strPtr(string(StatusConfirmada)),
	})
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Update(context.Background(), "nope", UpdateInput{
		Status: strPtr(string(StatusConfirmada)),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ClearVet_DetachesAppointments(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	a := mustCreate(t, svc, string(StatusPendiente))

	if err := svc.ClearVet(context.Background(), "vet-1"); err != nil {
		t.Fatalf("ClearVet error: %v", err)
	}
	got, err := svc.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.VetID != "" {
		t.Fatalf("expected vet detached, got %q", got.VetID)
	}
}

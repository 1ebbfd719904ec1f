package medical

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRecordsRepo struct {
	byID map[string]Record
}

func newTestRecordsRepo() *testRecordsRepo {
	return &testRecordsRepo{byID: map[string]Record{}}
}

func (r *testRecordsRepo) Create(ctx context.Context, rec Record) error {
	r.byID[rec.ID] = rec
	return nil
}

func (r *testRecordsRepo) Update(ctx context.Context, rec Record) error {
	if _, ok := r.byID[rec.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *testRecordsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRecordsRepo) GetByID(ctx context.Context, id string) (Record, error) {
	rec, ok := r.byID[id]
	if !ok {
		return Record{}, errRepoNotFound
	}
	return rec, nil
}

func (r *testRecordsRepo) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	out := make([]Record, 0)
	for _, rec := range r.byID {
		if filter.Pet != "" && rec.PetID != filter.Pet {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *testRecordsRepo) ClearVet(ctx context.Context, vetID string) error {
	for id, rec := range r.byID {
		if rec.VetID == vetID {
			rec.VetID = ""
			r.byID[id] = rec
		}
	}
	return nil
}

func (r *testRecordsRepo) DeleteByPet(ctx context.Context, petID string) error {
	for id, rec := range r.byID {
		if rec.PetID == petID {
			delete(r.byID, id)
		}
	}
	return nil
}

type testVaccinesRepo struct {
	byID map[string]Vaccine
}

func newTestVaccinesRepo() *testVaccinesRepo {
	return &testVaccinesRepo{byID: map[string]Vaccine{}}
}

func (r *testVaccinesRepo) Create(ctx context.Context, v Vaccine) error {
	r.byID[v.ID] = v
	return nil
}

func (r *testVaccinesRepo) Update(ctx context.Context, v Vaccine) error {
	if _, ok := r.byID[v.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *testVaccinesRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testVaccinesRepo) GetByID(ctx context.Context, id string) (Vaccine, error) {
	v, ok := r.byID[id]
	if !ok {
		return Vaccine{}, errRepoNotFound
	}
	return v, nil
}

func (r *testVaccinesRepo) List(ctx context.Context, filter ListFilter) ([]Vaccine, error) {
	out := make([]Vaccine, 0)
	for _, v := range r.byID {
		if filter.Pet != "" && v.PetID != filter.Pet {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *testVaccinesRepo) DeleteByPet(ctx context.Context, petID string) error {
	for id, v := range r.byID {
		if v.PetID == petID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *testVaccinesRepo) Count(ctx context.Context) (int, error) {
	return len(r.byID), nil
}

func newTestMedicalService() (*Service, *testRecordsRepo, *testVaccinesRepo) {
	records := newTestRecordsRepo()
	vaccines := newTestVaccinesRepo()
	return NewService(records, vaccines), records, vaccines
}

func timePtr(t time.Time) *time.Time { return &t }

// -------------------------
// Tests
// -------------------------

func TestService_CreateVaccine_AccumulatesFieldErrors(t *testing.T) {
	svc, _, _ := newTestMedicalService()

	_, err := svc.CreateVaccine(context.Background(), VaccineInput{})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	for _, field := range []string{"mascota", "nombre", "fecha_administracion"} {
		if vErr.Fields[field] != "Este campo es obligatorio." {
			t.Errorf("field %s: expected required message, got %q", field, vErr.Fields[field])
		}
	}
	if len(vErr.Fields) != 3 {
		t.Fatalf("expected exactly 3 field errors, got %d", len(vErr.Fields))
	}
}

func TestService_CreateVaccine_PartialMissing(t *testing.T) {
	svc, _, _ := newTestMedicalService()

	_, err := svc.CreateVaccine(context.Background(), VaccineInput{
		PetID:               "pet-1",
		FechaAdministracion: timePtr(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, ok := vErr.Fields["nombre"]; !ok {
		t.Fatalf("expected nombre flagged, got %#v", vErr.Fields)
	}
	if len(vErr.Fields) != 1 {
		t.Fatalf("expected only nombre flagged, got %#v", vErr.Fields)
	}
}

func TestService_CreateVaccine_OK(t *testing.T) {
	svc, _, vaccines := newTestMedicalService()

	v, err := svc.CreateVaccine(context.Background(), VaccineInput{
		PetID:               "pet-1",
		Nombre:              "Antirrábica",
		FechaAdministracion: timePtr(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("CreateVaccine error: %v", err)
	}
	if v.ID == "" {
		t.Fatalf("expected generated id")
	}
	if n, _ := vaccines.Count(context.Background()); n != 1 {
		t.Fatalf("expected 1 stored vaccine, got %d", n)
	}
}

func TestService_CreateRecord_RequiresPet(t *testing.T) {
	svc, _, _ := newTestMedicalService()

	_, err := svc.CreateRecord(context.Background(), RecordInput{
		Diagnostico: "otitis",
		Tratamiento: "gotas",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_DeleteByPet_CascadesRecordsAndVaccines(t *testing.T) {
	svc, records, vaccines := newTestMedicalService()

	_, err := svc.CreateRecord(context.Background(), RecordInput{
		PetID:       "pet-1",
		Diagnostico: "otitis",
		Tratamiento: "gotas",
	})
	if err != nil {
		t.Fatalf("CreateRecord error: %v", err)
	}
	_, err = svc.CreateVaccine(context.Background(), VaccineInput{
		PetID:               "pet-1",
		Nombre:              "Antirrábica",
		FechaAdministracion: timePtr(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("CreateVaccine error: %v", err)
	}

	if err := svc.DeleteByPet(context.Background(), "pet-1"); err != nil {
		t.Fatalf("DeleteByPet error: %v", err)
	}
	if len(records.byID) != 0 {
		t.Fatalf("expected records removed, got %d", len(records.byID))
	}
	if len(vaccines.byID) != 0 {
		t.Fatalf("expected vaccines removed, got %d", len(vaccines.byID))
	}
}

func TestService_ClearVet_DetachesRecords(t *testing.T) {
	svc, records, _ := newTestMedicalService()

	rec, err := svc.CreateRecord(context.Background(), RecordInput{
		PetID:       "pet-1",
		VetID:       "vet-1",
		Diagnostico: "otitis",
		Tratamiento: "gotas",
	})
	if err != nil {
		t.Fatalf("CreateRecord error: %v", err)
	}

	if err := svc.ClearVet(context.Background(), "vet-1"); err != nil {
		t.Fatalf("ClearVet error: %v", err)
	}
	if got := records.byID[rec.ID]; got.VetID != "" {
		t.Fatalf("expected vet detached, got %q", got.VetID)
	}
}

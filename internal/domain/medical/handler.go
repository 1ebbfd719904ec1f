package medical

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// PetNameLookup / VetNameLookup: nombres read-only sin acoplar paquetes.
type PetNameLookup interface {
	PetName(ctx context.Context, petID string) (string, error)
}

type VetNameLookup interface {
	VetName(ctx context.Context, vetID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, pets PetNameLookup, vets VetNameLookup) {
	r.Route("/registros-medicos", func(rr chi.Router) {
		rr.Post("/", createRecordHandler(svc, pets, vets))
		rr.Get("/", listRecordsHandler(svc, pets, vets))
		rr.Get("/{recordID}", getRecordHandler(svc, pets, vets))
		rr.Put("/{recordID}", updateRecordHandler(svc, pets, vets))
		rr.Delete("/{recordID}", deleteRecordHandler(svc))
	})

	r.Route("/vacunas", func(vr chi.Router) {
		vr.Post("/", createVaccineHandler(svc, pets))
		vr.Get("/", listVaccinesHandler(svc, pets))
		vr.Get("/{vaccineID}", getVaccineHandler(svc, pets))
		vr.Put("/{vaccineID}", updateVaccineHandler(svc, pets))
		vr.Delete("/{vaccineID}", deleteVaccineHandler(svc))
	})
}

type recordRequest struct {
	Mascota          string `json:"mascota"`
	Veterinario      string `json:"veterinario"`
	Sintomas         string `json:"sintomas"`
	Diagnostico      string `json:"diagnostico"`
	Tratamiento      string `json:"tratamiento"`
	Medicamentos     string `json:"medicamentos"`
	FechaSeguimiento string `json:"fecha_seguimiento"` // YYYY-MM-DD opcional
}

type recordResponse struct {
	ID                string     `json:"id"`
	Mascota           string     `json:"mascota"`
	MascotaNombre     string     `json:"mascota_nombre,omitempty"`
	Veterinario       string     `json:"veterinario,omitempty"`
	VeterinarioNombre string     `json:"veterinario_nombre,omitempty"`
	Sintomas          string     `json:"sintomas,omitempty"`
	Diagnostico       string     `json:"diagnostico"`
	Tratamiento       string     `json:"tratamiento"`
	Medicamentos      string     `json:"medicamentos,omitempty"`
	FechaSeguimiento  *time.Time `json:"fecha_seguimiento,omitempty"`
	CreadoEn          time.Time  `json:"creado_en"`
	ActualizadoEn     time.Time  `json:"actualizado_en"`
}

type vaccineRequest struct {
	Mascota             string `json:"mascota"`
	Nombre              string `json:"nombre"`
	FechaAdministracion string `json:"fecha_administracion"` // YYYY-MM-DD
	ProximaFecha        string `json:"proxima_fecha"`        // YYYY-MM-DD opcional
	Notas               string `json:"notas"`
}

type vaccineResponse struct {
	ID                  string     `json:"id"`
	Mascota             string     `json:"mascota"`
	MascotaNombre       string     `json:"mascota_nombre,omitempty"`
	Nombre              string     `json:"nombre"`
	FechaAdministracion time.Time  `json:"fecha_administracion"`
	ProximaFecha        *time.Time `json:"proxima_fecha,omitempty"`
	Notas               string     `json:"notas,omitempty"`
	CreadoEn            time.Time  `json:"creado_en"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error    string            `json:"error"`
	Detalles map[string]string `json:"detalles"`
}

func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func recordInput(req recordRequest) (RecordInput, error) {
	fs, err := parseOptionalDate(req.FechaSeguimiento)
	if err != nil {
		return RecordInput{}, errors.New("fecha_seguimiento debe ser YYYY-MM-DD")
	}
	return RecordInput{
		PetID:            req.Mascota,
		VetID:            req.Veterinario,
		Sintomas:         req.Sintomas,
		Diagnostico:      req.Diagnostico,
		Tratamiento:      req.Tratamiento,
		Medicamentos:     req.Medicamentos,
		FechaSeguimiento: fs,
	}, nil
}

func vaccineInput(req vaccineRequest) (VaccineInput, error) {
	fa, err := parseOptionalDate(req.FechaAdministracion)
	if err != nil {
		return VaccineInput{}, errors.New("fecha_administracion debe ser YYYY-MM-DD")
	}
	pf, err := parseOptionalDate(req.ProximaFecha)
	if err != nil {
		return VaccineInput{}, errors.New("proxima_fecha debe ser YYYY-MM-DD")
	}
	return VaccineInput{
		PetID:               req.Mascota,
		Nombre:              req.Nombre,
		FechaAdministracion: fa,
		ProximaFecha:        pf,
		Notas:               req.Notas,
	}, nil
}

func createRecordHandler(svc *Service, pets PetNameLookup, vets VetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		var req recordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		in, err := recordInput(req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		rec, err := svc.CreateRecord(r.Context(), in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		writeJSON(w, http.StatusCreated, toRecordResponse(r.Context(), rec, pets, vets))
	}
}

func listRecordsHandler(svc *Service, pets PetNameLookup, vets VetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		items, err := svc.ListRecords(r.Context(), ListFilter{Pet: r.URL.Query().Get("mascota")})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(r.Context(), rec, pets, vets))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getRecordHandler(svc *Service, pets PetNameLookup, vets VetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		rec, err := svc.GetRecord(r.Context(), chi.URLParam(r, "recordID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "registro no encontrado"})
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(r.Context(), rec, pets, vets))
	}
}

func updateRecordHandler(svc *Service, pets PetNameLookup, vets VetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		var req recordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		in, err := recordInput(req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		rec, err := svc.UpdateRecord(r.Context(), chi.URLParam(r, "recordID"), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "registro no encontrado"})
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, toRecordResponse(r.Context(), rec, pets, vets))
	}
}

func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		if err := svc.DeleteRecord(r.Context(), chi.URLParam(r, "recordID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "registro no encontrado"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// createVaccineHandler devuelve el detalle de validación por campo cuando
// faltan obligatorios, en vez de un mensaje plano.
func createVaccineHandler(svc *Service, pets PetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		var req vaccineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		in, err := vaccineInput(req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		v, err := svc.CreateVaccine(r.Context(), in)
		if err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				writeJSON(w, http.StatusBadRequest, validationResponse{
					Error:    "Error de validación",
					Detalles: vErr.Fields,
				})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		writeJSON(w, http.StatusCreated, toVaccineResponse(r.Context(), v, pets))
	}
}

func listVaccinesHandler(svc *Service, pets PetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		items, err := svc.ListVaccines(r.Context(), ListFilter{Pet: r.URL.Query().Get("mascota")})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		out := make([]vaccineResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVaccineResponse(r.Context(), v, pets))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getVaccineHandler(svc *Service, pets PetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		v, err := svc.GetVaccine(r.Context(), chi.URLParam(r, "vaccineID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "vacuna no encontrada"})
			return
		}
		writeJSON(w, http.StatusOK, toVaccineResponse(r.Context(), v, pets))
	}
}

func updateVaccineHandler(svc *Service, pets PetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		var req vaccineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		in, err := vaccineInput(req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		v, err := svc.UpdateVaccine(r.Context(), chi.URLParam(r, "vaccineID"), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "vacuna no encontrada"})
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, toVaccineResponse(r.Context(), v, pets))
	}
}

func deleteVaccineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		if err := svc.DeleteVaccine(r.Context(), chi.URLParam(r, "vaccineID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "vacuna no encontrada"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toRecordResponse(ctx context.Context, rec Record, pets PetNameLookup, vets VetNameLookup) recordResponse {
	resp := recordResponse{
		ID:               rec.ID,
		Mascota:          rec.PetID,
		Veterinario:      rec.VetID,
		Sintomas:         rec.Sintomas,
		Diagnostico:      rec.Diagnostico,
		Tratamiento:      rec.Tratamiento,
		Medicamentos:     rec.Medicamentos,
		FechaSeguimiento: rec.FechaSeguimiento,
		CreadoEn:         rec.CreatedAt,
		ActualizadoEn:    rec.UpdatedAt,
	}
	if pets != nil {
		if name, err := pets.PetName(ctx, rec.PetID); err == nil {
			resp.MascotaNombre = name
		}
	}
	if vets != nil && rec.VetID != "" {
		if name, err := vets.VetName(ctx, rec.VetID); err == nil {
			resp.VeterinarioNombre = name
		}
	}
	return resp
}

func toVaccineResponse(ctx context.Context, v Vaccine, pets PetNameLookup) vaccineResponse {
	resp := vaccineResponse{
		ID:                  v.ID,
		Mascota:             v.PetID,
		Nombre:              v.Nombre,
		FechaAdministracion: v.FechaAdministracion,
		ProximaFecha:        v.ProximaFecha,
		Notas:               v.Notas,
		CreadoEn:            v.CreatedAt,
	}
	if pets != nil {
		if name, err := pets.PetName(ctx, v.PetID); err == nil {
			resp.MascotaNombre = name
		}
	}
	return resp
}

func writeGuardError(w http.ResponseWriter, err error) {
	if errors.Is(err, accounts.ErrForbidden) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package pets

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

// DependentCleaner elimina en cascada las entidades ligadas a la mascota
// (citas, registros médicos, vacunas) al borrarla.
type DependentCleaner interface {
	DeleteByPet(ctx context.Context, petID string) error
}

func RegisterRoutes(r chi.Router, svc *Service, cleaners ...DependentCleaner) {
	r.Route("/mascotas", func(pr chi.Router) {
		pr.Post("/", createHandler(svc))
		pr.Get("/", listHandler(svc))
		pr.Get("/{petID}", getHandler(svc))
		pr.Put("/{petID}", updateHandler(svc))
		pr.Delete("/{petID}", deleteHandler(svc, cleaners))
	})
}

type petRequest struct {
	Propietario     string `json:"propietario"`
	Nombre          string `json:"nombre"`
	Especie         string `json:"especie"`
	Raza            string `json:"raza"`
	FechaNacimiento string `json:"fecha_nacimiento"` // YYYY-MM-DD opcional
	Sexo            string `json:"sexo"`
}

type petResponse struct {
	ID              string     `json:"id"`
	Propietario     string     `json:"propietario"`
	Nombre          string     `json:"nombre"`
	Especie         string     `json:"especie"`
	Raza            string     `json:"raza,omitempty"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento,omitempty"`
	Sexo            string     `json:"sexo"`
	CreadoEn        time.Time  `json:"creado_en"`
	ActualizadoEn   time.Time  `json:"actualizado_en"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func parseInput(req petRequest) (Input, error) {
	var bd *time.Time
	if strings.TrimSpace(req.FechaNacimiento) != "" {
		t, err := time.Parse("2006-01-02", req.FechaNacimiento)
		if err != nil {
			return Input{}, errors.New("fecha_nacimiento debe ser YYYY-MM-DD")
		}
		bd = &t
	}
	return Input{
		OwnerID:         req.Propietario,
		Nombre:          req.Nombre,
		Especie:         req.Especie,
		Raza:            req.Raza,
		FechaNacimiento: bd,
		Sexo:            req.Sexo,
	}, nil
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		in, err := parseInput(req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		p, err := svc.Create(r.Context(), in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		items, err := svc.List(r.Context(), ListFilter{Owner: r.URL.Query().Get("propietario")})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "mascota no encontrada"})
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		in, err := parseInput(req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "mascota no encontrada"})
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func deleteHandler(svc *Service, cleaners []DependentCleaner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		petID := chi.URLParam(r, "petID")
		if err := svc.Delete(r.Context(), petID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "mascota no encontrada"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		// Cascada: citas, registros y vacunas de la mascota.
		for _, c := range cleaners {
			_ = c.DeleteByPet(r.Context(), petID)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:              p.ID,
		Propietario:     p.OwnerID,
		Nombre:          p.Nombre,
		Especie:         p.Especie,
		Raza:            p.Raza,
		FechaNacimiento: p.FechaNacimiento,
		Sexo:            p.Sexo,
		CreadoEn:        p.CreatedAt,
		ActualizadoEn:   p.UpdatedAt,
	}
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

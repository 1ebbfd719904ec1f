package appointments

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
	"go.uber.org/zap"
)

// PetNameLookup / VetNameLookup evitan importar pets y accounts completos
// (mismo truco que usan los otros módulos para romper ciclos).
type PetNameLookup interface {
	PetName(ctx context.Context, petID string) (string, error)
}

type VetNameLookup interface {
	VetName(ctx context.Context, vetID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, pets PetNameLookup, vets VetNameLookup, log *zap.SugaredLogger) {
	r.Route("/citas", func(cr chi.Router) {
		cr.Post("/", createHandler(svc, pets, vets))
		cr.Get("/", listHandler(svc, pets, vets))
		cr.Get("/{citaID}", getHandler(svc, pets, vets))
		cr.Patch("/{citaID}", updateHandler(svc, pets, vets, log))
	})
}

type createRequest struct {
	Mascota         string `json:"mascota"`
	Veterinario     string `json:"veterinario"`
	FechaProgramada string `json:"fecha_programada"` // RFC3339
	Motivo          string `json:"motivo"`
	Estado          string `json:"estado"`
	Notas           string `json:"notas"`
}

type updateRequest struct {
	// Punteros para PATCH real: nil = no tocar. Si "estado" no viene,
	// el request no pasa por la máquina de estados.
	Veterinario     *string `json:"veterinario"`
	FechaProgramada *string `json:"fecha_programada"`
	Motivo          *string `json:"motivo"`
	Estado          *string `json:"estado"`
	Notas           *string `json:"notas"`
}

type citaResponse struct {
	ID                string    `json:"id"`
	Mascota           string    `json:"mascota"`
	MascotaNombre     string    `json:"mascota_nombre,omitempty"`
	Veterinario       string    `json:"veterinario,omitempty"`
	VeterinarioNombre string    `json:"veterinario_nombre,omitempty"`
	FechaProgramada   time.Time `json:"fecha_programada"`
	Motivo            string    `json:"motivo"`
	Estado            Status    `json:"estado"`
	Notas             string    `json:"notas,omitempty"`
	CreadoEn          time.Time `json:"creado_en"`
	ActualizadoEn     time.Time `json:"actualizado_en"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// createHandler godoc
// @Summary Crear cita
// @Tags citas
// @Accept json
// @Produce json
// @Success 201 {object} citaResponse
// @Router /api/citas [post]
func createHandler(svc *Service, pets PetNameLookup, vets VetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "invalid json"})
			return
		}

		var scheduled time.Time
		if strings.TrimSpace(req.FechaProgramada) != "" {
			t, err := time.Parse(time.RFC3339, req.FechaProgramada)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "fecha_programada debe ser RFC3339"})
				return
			}
			scheduled = t
		}

		a, err := svc.Create(r.Context(), CreateInput{
			PetID:       req.Mascota,
			VetID:       req.Veterinario,
			ScheduledAt: scheduled,
			Reason:      req.Motivo,
			Status:      req.Estado,
			Notes:       req.Notas,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, detailResponse{Detail: err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: "internal error"})
			}
			return
		}

		writeJSON(w, http.StatusCreated, toCitaResponse(r.Context(), a, pets, vets))
	}
}

func listHandler(svc *Service, pets PetNameLookup, vets VetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: "internal error"})
			return
		}

		out := make([]citaResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toCitaResponse(r.Context(), a, pets, vets))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service, pets PetNameLookup, vets VetNameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "citaID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, detailResponse{Detail: "cita no encontrada"})
			return
		}
		writeJSON(w, http.StatusOK, toCitaResponse(r.Context(), a, pets, vets))
	}
}

// updateHandler aplica el partial update, ruteando por la máquina de estados
// cuando viene "estado". Cualquier falla inesperada durante la operación se
// reporta como error de cliente con mensaje saneado; el detalle interno se
// loggea, nunca viaja al caller.
func updateHandler(svc *Service, pets PetNameLookup, vets VetNameLookup, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		citaID := chi.URLParam(r, "citaID")

		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "invalid json"})
			return
		}

		in := UpdateInput{
			VetID:  req.Veterinario,
			Reason: req.Motivo,
			Status: req.Estado,
			Notes:  req.Notas,
		}
		if req.FechaProgramada != nil {
			t, err := time.Parse(time.RFC3339, *req.FechaProgramada)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "fecha_programada debe ser RFC3339"})
				return
			}
			in.ScheduledAt = &t
		}

		a, err := svc.Update(r.Context(), citaID, in)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, detailResponse{Detail: "cita no encontrada"})
			case errors.Is(err, ErrInvalidStatus),
				errors.Is(err, ErrTerminalState),
				errors.Is(err, ErrStatusConflict),
				errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, detailResponse{Detail: err.Error()})
			default:
				log.Errorw("cita update failed", "cita_id", citaID, "error", err)
				writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "no se pudo actualizar la cita"})
			}
			return
		}

		writeJSON(w, http.StatusOK, toCitaResponse(r.Context(), a, pets, vets))
	}
}

func toCitaResponse(ctx context.Context, a Appointment, pets PetNameLookup, vets VetNameLookup) citaResponse {
	resp := citaResponse{
		ID:              a.ID,
		Mascota:         a.PetID,
		Veterinario:     a.VetID,
		FechaProgramada: a.ScheduledAt,
		Motivo:          a.Reason,
		Estado:          a.Status,
		Notas:           a.Notes,
		CreadoEn:        a.CreatedAt,
		ActualizadoEn:   a.UpdatedAt,
	}

	// Nombres read-only; se toleran referencias rotas (vet eliminado).
	if pets != nil {
		if name, err := pets.PetName(ctx, a.PetID); err == nil {
			resp.MascotaNombre = name
		}
	}
	if vets != nil && a.VetID != "" {
		if name, err := vets.VetName(ctx, a.VetID); err == nil {
			resp.VeterinarioNombre = name
		}
	}
	return resp
}

func writeGuardError(w http.ResponseWriter, err error) {
	if errors.Is(err, accounts.ErrForbidden) {
		writeJSON(w, http.StatusForbidden, detailResponse{Detail: "forbidden"})
		return
	}
	writeJSON(w, http.StatusUnauthorized, detailResponse{Detail: "unauthorized"})
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

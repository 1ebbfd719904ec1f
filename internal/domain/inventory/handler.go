package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/inventario", func(ir chi.Router) {
		ir.Post("/", createHandler(svc))
		ir.Get("/", listHandler(svc))
		ir.Get("/{itemID}", getHandler(svc))
		ir.Put("/{itemID}", updateHandler(svc))
		ir.Delete("/{itemID}", deleteHandler(svc))
	})
}

type itemRequest struct {
	Nombre       string  `json:"nombre"`
	Descripcion  string  `json:"descripcion"`
	Cantidad     int     `json:"cantidad"`
	NivelReorden *int    `json:"nivel_reorden"`
	Precio       float64 `json:"precio"`
}

type itemResponse struct {
	ID            string    `json:"id"`
	Nombre        string    `json:"nombre"`
	Descripcion   string    `json:"descripcion,omitempty"`
	Cantidad      int       `json:"cantidad"`
	NivelReorden  int       `json:"nivel_reorden"`
	Precio        float64   `json:"precio"`
	CreadoEn      time.Time `json:"creado_en"`
	ActualizadoEn time.Time `json:"actualizado_en"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		it, err := svc.Create(r.Context(), Input(req))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		writeJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		out := make([]itemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toItemResponse(it))
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

		it, err := svc.GetByID(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "artículo no encontrado"})
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		it, err := svc.Update(r.Context(), chi.URLParam(r, "itemID"), Input(req))
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "artículo no encontrado"})
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "itemID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "artículo no encontrado"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toItemResponse(it Item) itemResponse {
	return itemResponse{
		ID:            it.ID,
		Nombre:        it.Nombre,
		Descripcion:   it.Descripcion,
		Cantidad:      it.Cantidad,
		NivelReorden:  it.NivelReorden,
		Precio:        it.Precio,
		CreadoEn:      it.CreatedAt,
		ActualizadoEn: it.UpdatedAt,
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

package reports

import (
	"encoding/json"
	"errors"
	"net/http"

	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reportes", func(rr chi.Router) {
		rr.Get("/resumen", summaryHandler(svc))
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

// summaryHandler godoc
// @Summary      Resumen operativo de la clínica
// @Description  Conteo de citas por estado, mascotas por especie y vacunas aplicadas
// @Tags         reportes
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  reports.Summary
// @Failure      401  {object}  reports.errorResponse
// @Router       /api/reportes/resumen [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := accounts.Authorize(claims, ok, accounts.ActionClinic); err != nil {
			writeGuardError(w, err)
			return
		}

		sum, err := svc.Summary(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

func writeGuardError(w http.ResponseWriter, err error) {
	if errors.Is(err, accounts.ErrForbidden) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}

// Cada paquete de handlers mantiene su propio writeJSON; es duplicación
// deliberada para no acoplar los dominios por un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vet-clinic-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// VetUnlinker anula las referencias al usuario eliminado en otras entidades
// (citas, registros médicos). Evita importar esos módulos desde accounts.
type VetUnlinker interface {
	ClearVet(ctx context.Context, vetID string) error
}

func RegisterRoutes(r chi.Router, svc *Service, unlinkers ...VetUnlinker) {
	r.Route("/usuarios", func(ur chi.Router) {
		ur.Post("/login", loginHandler(svc))

		ur.Get("/", listUsersHandler(svc))
		ur.Post("/", createUserHandler(svc))
		ur.Get("/{userID}", getUserHandler(svc))
		ur.Patch("/{userID}", updateUserHandler(svc))
		ur.Delete("/{userID}", deleteUserHandler(svc, unlinkers))
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Nombre       string `json:"nombre"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Rol          Role   `json:"rol"`
	Telefono     string `json:"telefono,omitempty"`
	Especialidad string `json:"especialidad,omitempty"`
}

type loginUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Nombre   string `json:"nombre"`
	Rol      Role   `json:"rol"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type createUserRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Password     string `json:"password"`
	Rol          string `json:"rol"`
	Telefono     string `json:"telefono"`
	Especialidad string `json:"especialidad"`
}

type updateUserRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Password     *string `json:"password"`
	Rol          *string `json:"rol"`
	Telefono     *string `json:"telefono"`
	Especialidad *string `json:"especialidad"`
}

// loginHandler godoc
// @Summary Login con email o username + password
// @Tags usuarios
// @Accept json
// @Produce json
// @Success 200 {object} loginResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /api/usuarios/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// ActionLogin siempre permitido; no se consulta el guard con claims.

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		identifier := strings.TrimSpace(req.Email)
		if identifier == "" {
			identifier = strings.TrimSpace(req.Username)
		}

		u, t, err := svc.Login(r.Context(), identifier, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingCredentials):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Se requiere identificador y contraseña"})
			case errors.Is(err, ErrInvalidCredentials):
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Credenciales inválidas"})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Token: t.Key,
			User: loginUser{
				ID:       u.ID,
				Username: u.Username,
				Email:    u.Email,
				Nombre:   u.Nombre(),
				Rol:      u.Rol,
			},
		})
	}
}

func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := Authorize(claims, ok, ActionUsersRead); err != nil {
			writeGuardError(w, err)
			return
		}

		items, err := svc.List(r.Context(), ListFilter{Rol: r.URL.Query().Get("rol")})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := Authorize(claims, ok, ActionUsersRead); err != nil {
			writeGuardError(w, err)
			return
		}

		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "usuario no encontrado"})
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := Authorize(claims, ok, ActionUsersWrite); err != nil {
			writeGuardError(w, err)
			return
		}

		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		u, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			case errors.Is(err, ErrDuplicate):
				writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := Authorize(claims, ok, ActionUsersWrite); err != nil {
			writeGuardError(w, err)
			return
		}

		var req updateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		u, err := svc.Update(r.Context(), chi.URLParam(r, "userID"), UpdateInput(req))
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "usuario no encontrado"})
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			case errors.Is(err, ErrDuplicate):
				writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func deleteUserHandler(svc *Service, unlinkers []VetUnlinker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if err := Authorize(claims, ok, ActionUsersWrite); err != nil {
			writeGuardError(w, err)
			return
		}

		userID := chi.URLParam(r, "userID")
		if err := svc.Delete(r.Context(), userID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "usuario no encontrado"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		// Referencias en citas/registros quedan en null (SET NULL).
		for _, u := range unlinkers {
			_ = u.ClearVet(r.Context(), userID)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		Nombre:       u.Nombre(),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Rol:          u.Rol,
		Telefono:     u.Telefono,
		Especialidad: u.Especialidad,
	}
}

func writeGuardError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrForbidden) {
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

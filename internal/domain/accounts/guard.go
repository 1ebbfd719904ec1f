package accounts

import (
	"errors"

	"vet-clinic-backend/internal/ports/auth"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Action es la categoría de acción que evalúa el guard.
type Action string

const (
	// Login siempre está permitido, incluso anónimo.
	ActionLogin Action = "login"
	// Listar / consultar usuarios: cualquier actor autenticado.
	ActionUsersRead Action = "users:read"
	// Crear / modificar / eliminar usuarios: solo SYSTEM_ADMIN.
	ActionUsersWrite Action = "users:write"
	// Resto de recursos (citas, mascotas, clientes, inventario,
	// registros médicos, vacunas, reportes): cualquier autenticado.
	ActionClinic Action = "clinic"
)

// Authorize decide allow/deny antes de que corra cualquier handler.
// Distingue "no autenticado" (401) de "rol insuficiente" (403).
func Authorize(claims auth.Claims, authenticated bool, action Action) error {
	if action == ActionLogin {
		return nil
	}
	if !authenticated {
		return ErrUnauthenticated
	}

	switch action {
	case ActionUsersRead, ActionClinic:
		return nil
	case ActionUsersWrite:
		// Switch exhaustivo sobre el enum cerrado de roles.
		switch Role(claims.Rol) {
		case RoleSystemAdmin:
			return nil
		case RoleAdministrador, RoleVeterinario, RoleRecepcionista:
			return ErrForbidden
		default:
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}
}

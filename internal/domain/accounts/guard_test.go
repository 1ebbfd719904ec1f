package accounts

import (
	"errors"
	"testing"

	"vet-clinic-backend/internal/ports/auth"
)

func claimsFor(rol Role) auth.Claims {
	return auth.Claims{UserID: "u-1", Rol: string(rol)}
}

func TestAuthorize_LoginAlwaysAllowed(t *testing.T) {
	if err := Authorize(auth.Claims{}, false, ActionLogin); err != nil {
		t.Fatalf("anonymous login: %v", err)
	}
	if err := Authorize(claimsFor(RoleRecepcionista), true, ActionLogin); err != nil {
		t.Fatalf("authenticated login: %v", err)
	}
}

func TestAuthorize_AnonymousDeniedEverywhereElse(t *testing.T) {
	for _, action := range []Action{ActionUsersRead, ActionUsersWrite, ActionClinic} {
		err := Authorize(auth.Claims{}, false, action)
		if !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("action %s: expected ErrUnauthenticated, got %v", action, err)
		}
	}
}

func TestAuthorize_RoleMatrix(t *testing.T) {
	roles := []Role{RoleSystemAdmin, RoleAdministrador, RoleVeterinario, RoleRecepcionista}

	for _, rol := range roles {
		// lectura de usuarios y recursos de clínica: todos los autenticados
		for _, action := range []Action{ActionUsersRead, ActionClinic} {
			if err := Authorize(claimsFor(rol), true, action); err != nil {
				t.Errorf("rol %s action %s: expected allow, got %v", rol, action, err)
			}
		}

		// escritura de usuarios: solo SYSTEM_ADMIN
		err := Authorize(claimsFor(rol), true, ActionUsersWrite)
		if rol == RoleSystemAdmin {
			if err != nil {
				t.Errorf("rol %s users:write: expected allow, got %v", rol, err)
			}
		} else if !errors.Is(err, ErrForbidden) {
			t.Errorf("rol %s users:write: expected ErrForbidden, got %v", rol, err)
		}
	}
}

// Un rol fuera del enum (claims corruptos o datos viejos) nunca escala
// privilegios: cae en deny.
func TestAuthorize_UnknownRole_Denied(t *testing.T) {
	err := Authorize(auth.Claims{UserID: "u-1", Rol: "SUPERUSUARIO"}, true, ActionUsersWrite)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

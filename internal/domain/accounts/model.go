package accounts

import (
	"strings"
	"time"
)

// Role define los roles soportados por el sistema.
// Es un enum cerrado: todo switch sobre Role debe cubrir los cuatro valores.
// @Enum SYSTEM_ADMIN, ADMINISTRADOR, VETERINARIO, RECEPCIONISTA
type Role string

const (
	RoleSystemAdmin   Role = "SYSTEM_ADMIN"
	RoleAdministrador Role = "ADMINISTRADOR"
	RoleVeterinario   Role = "VETERINARIO"
	RoleRecepcionista Role = "RECEPCIONISTA"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleAdministrador, RoleVeterinario, RoleRecepcionista:
		return true
	}
	return false
}

// User representa una cuenta del personal de la clínica.
// Email es la clave de login; Username funciona como identificador secundario.
type User struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string

	PasswordHash string
	Rol          Role

	Telefono     string
	Especialidad string // relevante para VETERINARIO

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Nombre es el nombre para mostrar, derivado de first+last name.
func (u User) Nombre() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Token es el token de sesión opaco asociado a un usuario.
// Existe a lo sumo uno por usuario; no expira por sí solo.
type Token struct {
	Key       string
	UserID    string
	CreatedAt time.Time
}

package pets

import "time"

// Pet representa una mascota registrada en la clínica.
// OwnerID referencia al cliente dueño; al eliminar la mascota se eliminan
// en cascada sus citas, registros médicos y vacunas.
type Pet struct {
	ID      string
	OwnerID string // propietario (cliente)

	Nombre          string
	Especie         string
	Raza            string
	FechaNacimiento *time.Time
	Sexo            string // default "Desconocido"

	CreatedAt time.Time
	UpdatedAt time.Time
}

package clients

import "time"

// Client representa al dueño de una o más mascotas.
type Client struct {
	ID        string
	Nombre    string
	Apellido  string
	Email     string
	Telefono  string
	Direccion string

	CreatedAt time.Time
	UpdatedAt time.Time
}

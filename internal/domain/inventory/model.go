package inventory

import "time"

// Item representa un artículo del inventario de la clínica.
type Item struct {
	ID          string
	Nombre      string
	Descripcion string
	Cantidad    int
	// NivelReorden marca el umbral de reposición (default 10).
	NivelReorden int
	Precio       float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

package medical

import (
	"sort"
	"strings"
	"time"
)

// Record representa un registro médico de una mascota.
type Record struct {
	ID    string
	PetID string
	// VetID puede quedar vacío si el veterinario referido fue eliminado.
	VetID string

	Sintomas     string
	Diagnostico  string
	Tratamiento  string
	Medicamentos string

	FechaSeguimiento *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Vaccine representa una vacuna administrada a una mascota.
type Vaccine struct {
	ID    string
	PetID string

	Nombre              string
	FechaAdministracion time.Time
	ProximaFecha        *time.Time
	Notas               string

	CreatedAt time.Time
}

// ValidationError acumula fallas de validación por campo, para que el
// cliente reciba un detalle estructurado en vez de un mensaje plano.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "error de validación: " + strings.Join(keys, ", ")
}

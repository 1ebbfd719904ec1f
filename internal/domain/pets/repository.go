package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context, filter ListFilter) ([]Pet, error)

	// CountBySpecies alimenta el colaborador de reportes (solo lectura).
	CountBySpecies(ctx context.Context) (map[string]int, error)
}

// ListFilter: Owner vacío => sin filtrar. Match exacto por propietario.
type ListFilter struct {
	Owner string
}

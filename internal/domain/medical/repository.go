package medical

import "context"

type RecordRepository interface {
	Create(ctx context.Context, rec Record) error
	Update(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, error)

	ClearVet(ctx context.Context, vetID string) error
	DeleteByPet(ctx context.Context, petID string) error
}

type VaccineRepository interface {
	Create(ctx context.Context, v Vaccine) error
	Update(ctx context.Context, v Vaccine) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Vaccine, error)
	List(ctx context.Context, filter ListFilter) ([]Vaccine, error)

	DeleteByPet(ctx context.Context, petID string) error

	// Count alimenta el colaborador de reportes (solo lectura).
	Count(ctx context.Context) (int, error)
}

// ListFilter: Pet vacío => sin filtrar. Match exacto por mascota.
type ListFilter struct {
	Pet string
}

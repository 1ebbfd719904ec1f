package appointments

import "context"

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context) ([]Appointment, error)

	// Update aplica la cita completa condicionado al estado que el caller
	// leyó. Si el estado almacenado ya no es expected (transición
	// concurrente), devuelve ErrStatusConflict sin escribir nada.
	Update(ctx context.Context, a Appointment, expected Status) error

	// ClearVet anula la referencia al veterinario en todas sus citas
	// (equivalente a ON DELETE SET NULL).
	ClearVet(ctx context.Context, vetID string) error

	// DeleteByPet elimina las citas de la mascota (cascada al borrarla).
	DeleteByPet(ctx context.Context, petID string) error

	// CountByStatus alimenta el colaborador de reportes (solo lectura).
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

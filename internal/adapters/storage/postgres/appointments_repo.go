package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-clinic-backend/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO citas (
			id, mascota_id, veterinario_id,
			fecha_programada, motivo, estado, notas,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		a.ID,
		a.PetID,
		toNullString(a.VetID),
		a.ScheduledAt,
		a.Reason,
		string(a.Status),
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

const citaColumns = `
	id, mascota_id, veterinario_id,
	fecha_programada, motivo, estado, notas,
	created_at, updated_at
`

func scanCita(row interface{ Scan(...any) error }) (appointments.Appointment, error) {
	var a appointments.Appointment
	var vet sql.NullString
	var estado string
	if err := row.Scan(
		&a.ID,
		&a.PetID,
		&vet,
		&a.ScheduledAt,
		&a.Reason,
		&estado,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	if vet.Valid {
		a.VetID = vet.String
	}
	a.Status = appointments.Status(estado)
	return a, nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+citaColumns+` FROM citas WHERE id = $1`, id)
	return scanCita(row)
}

func (r *AppointmentsRepo) List(ctx context.Context) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+citaColumns+` FROM citas ORDER BY fecha_programada ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanCita(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update condiciona la escritura al estado que leyó el caller. Cero filas
// afectadas con la cita presente significa transición concurrente.
func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment, expected appointments.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE citas
		SET
			veterinario_id = $2,
			fecha_programada = $3,
			motivo = $4,
			estado = $5,
			notas = $6,
			updated_at = $7
		WHERE id = $1 AND estado = $8
	`,
		a.ID,
		toNullString(a.VetID),
		a.ScheduledAt,
		a.Reason,
		string(a.Status),
		a.Notes,
		a.UpdatedAt,
		string(expected),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM citas WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return appointments.ErrStatusConflict
}

func (r *AppointmentsRepo) ClearVet(ctx context.Context, vetID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE citas SET veterinario_id = NULL WHERE veterinario_id = $1
	`, vetID)
	return err
}

func (r *AppointmentsRepo) DeleteByPet(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM citas WHERE mascota_id = $1`, petID)
	return err
}

func (r *AppointmentsRepo) CountByStatus(ctx context.Context) (map[appointments.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT estado, COUNT(*) FROM citas GROUP BY estado
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[appointments.Status]int)
	for rows.Next() {
		var estado string
		var n int
		if err := rows.Scan(&estado, &n); err != nil {
			return nil, err
		}
		out[appointments.Status(estado)] = n
	}
	return out, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-clinic-backend/internal/domain/medical"
)

type MedicalRecordsRepo struct {
	db *sql.DB
}

func NewMedicalRecordsRepo(db *sql.DB) *MedicalRecordsRepo {
	return &MedicalRecordsRepo{db: db}
}

func (r *MedicalRecordsRepo) Create(ctx context.Context, rec medical.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO registros_medicos (
			id, mascota_id, veterinario_id,
			sintomas, diagnostico, tratamiento, medicamentos,
			fecha_seguimiento, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		rec.ID,
		rec.PetID,
		toNullString(rec.VetID),
		rec.Sintomas,
		rec.Diagnostico,
		rec.Tratamiento,
		rec.Medicamentos,
		toNullTime(rec.FechaSeguimiento),
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

func (r *MedicalRecordsRepo) Update(ctx context.Context, rec medical.Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE registros_medicos
		SET
			veterinario_id = $2,
			sintomas = $3,
			diagnostico = $4,
			tratamiento = $5,
			medicamentos = $6,
			fecha_seguimiento = $7,
			updated_at = $8
		WHERE id = $1
	`,
		rec.ID,
		toNullString(rec.VetID),
		rec.Sintomas,
		rec.Diagnostico,
		rec.Tratamiento,
		rec.Medicamentos,
		toNullTime(rec.FechaSeguimiento),
		rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicalRecordsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM registros_medicos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const recordColumns = `
	id, mascota_id, veterinario_id,
	sintomas, diagnostico, tratamiento, medicamentos,
	fecha_seguimiento, created_at, updated_at
`

func scanRecord(row interface{ Scan(...any) error }) (medical.Record, error) {
	var rec medical.Record
	var vet sql.NullString
	var fs sql.NullTime
	if err := row.Scan(
		&rec.ID,
		&rec.PetID,
		&vet,
		&rec.Sintomas,
		&rec.Diagnostico,
		&rec.Tratamiento,
		&rec.Medicamentos,
		&fs,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return medical.Record{}, ErrNotFound
		}
		return medical.Record{}, err
	}
	if vet.Valid {
		rec.VetID = vet.String
	}
	if fs.Valid {
		t := fs.Time
		rec.FechaSeguimiento = &t
	}
	return rec, nil
}

func (r *MedicalRecordsRepo) GetByID(ctx context.Context, id string) (medical.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medical.Record{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM registros_medicos WHERE id = $1`, id)
	return scanRecord(row)
}

func (r *MedicalRecordsRepo) List(ctx context.Context, filter medical.ListFilter) ([]medical.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM registros_medicos`
	args := []any{}
	if filter.Pet != "" {
		query += ` WHERE mascota_id = $1`
		args = append(args, filter.Pet)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medical.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *MedicalRecordsRepo) ClearVet(ctx context.Context, vetID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE registros_medicos SET veterinario_id = NULL WHERE veterinario_id = $1
	`, vetID)
	return err
}

func (r *MedicalRecordsRepo) DeleteByPet(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM registros_medicos WHERE mascota_id = $1`, petID)
	return err
}

type VaccinesRepo struct {
	db *sql.DB
}

func NewVaccinesRepo(db *sql.DB) *VaccinesRepo {
	return &VaccinesRepo{db: db}
}

func (r *VaccinesRepo) Create(ctx context.Context, v medical.Vaccine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vacunas (
			id, mascota_id, nombre,
			fecha_administracion, proxima_fecha, notas, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		v.ID,
		v.PetID,
		v.Nombre,
		v.FechaAdministracion,
		toNullTime(v.ProximaFecha),
		v.Notas,
		v.CreatedAt,
	)
	return err
}

func (r *VaccinesRepo) Update(ctx context.Context, v medical.Vaccine) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vacunas
		SET
			nombre = $2,
			fecha_administracion = $3,
			proxima_fecha = $4,
			notas = $5
		WHERE id = $1
	`,
		v.ID,
		v.Nombre,
		v.FechaAdministracion,
		toNullTime(v.ProximaFecha),
		v.Notas,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VaccinesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vacunas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanVaccine(row interface{ Scan(...any) error }) (medical.Vaccine, error) {
	var v medical.Vaccine
	var pf sql.NullTime
	if err := row.Scan(
		&v.ID,
		&v.PetID,
		&v.Nombre,
		&v.FechaAdministracion,
		&pf,
		&v.Notas,
		&v.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return medical.Vaccine{}, ErrNotFound
		}
		return medical.Vaccine{}, err
	}
	if pf.Valid {
		t := pf.Time
		v.ProximaFecha = &t
	}
	return v, nil
}

const vaccineColumns = `
	id, mascota_id, nombre,
	fecha_administracion, proxima_fecha, notas, created_at
`

func (r *VaccinesRepo) GetByID(ctx context.Context, id string) (medical.Vaccine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medical.Vaccine{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+vaccineColumns+` FROM vacunas WHERE id = $1`, id)
	return scanVaccine(row)
}

func (r *VaccinesRepo) List(ctx context.Context, filter medical.ListFilter) ([]medical.Vaccine, error) {
	query := `SELECT ` + vaccineColumns + ` FROM vacunas`
	args := []any{}
	if filter.Pet != "" {
		query += ` WHERE mascota_id = $1`
		args = append(args, filter.Pet)
	}
	query += ` ORDER BY fecha_administracion ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medical.Vaccine, 0)
	for rows.Next() {
		v, err := scanVaccine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VaccinesRepo) DeleteByPet(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vacunas WHERE mascota_id = $1`, petID)
	return err
}

func (r *VaccinesRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vacunas`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-clinic-backend/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mascotas (
			id, propietario_id,
			nombre, especie, raza, sexo, fecha_nacimiento,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		p.ID,
		p.OwnerID,
		p.Nombre,
		p.Especie,
		p.Raza,
		p.Sexo,
		toNullTime(p.FechaNacimiento),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE mascotas
		SET
			propietario_id = $2,
			nombre = $3,
			especie = $4,
			raza = $5,
			sexo = $6,
			fecha_nacimiento = $7,
			updated_at = $8
		WHERE id = $1
	`,
		p.ID,
		p.OwnerID,
		p.Nombre,
		p.Especie,
		p.Raza,
		p.Sexo,
		toNullTime(p.FechaNacimiento),
		p.UpdatedAt,
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

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mascotas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPet(row interface{ Scan(...any) error }) (pets.Pet, error) {
	var p pets.Pet
	var fn sql.NullTime
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Nombre,
		&p.Especie,
		&p.Raza,
		&p.Sexo,
		&fn,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, ErrNotFound
		}
		return pets.Pet{}, err
	}
	if fn.Valid {
		t := fn.Time
		p.FechaNacimiento = &t
	}
	return p, nil
}

const petColumns = `
	id, propietario_id,
	nombre, especie, raza, sexo, fecha_nacimiento,
	created_at, updated_at
`

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM mascotas WHERE id = $1`, id)
	return scanPet(row)
}

func (r *PetsRepo) List(ctx context.Context, filter pets.ListFilter) ([]pets.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM mascotas`
	args := []any{}
	if filter.Owner != "" {
		query += ` WHERE propietario_id = $1`
		args = append(args, filter.Owner)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) CountBySpecies(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT especie, COUNT(*) FROM mascotas GROUP BY especie
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var especie string
		var n int
		if err := rows.Scan(&especie, &n); err != nil {
			return nil, err
		}
		out[especie] = n
	}
	return out, rows.Err()
}

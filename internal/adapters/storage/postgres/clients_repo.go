package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-clinic-backend/internal/domain/clients"
)

type ClientsRepo struct {
	db *sql.DB
}

func NewClientsRepo(db *sql.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clientes (
			id, nombre, apellido, email, telefono, direccion,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID,
		c.Nombre,
		c.Apellido,
		c.Email,
		c.Telefono,
		c.Direccion,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clientes
		SET
			nombre = $2,
			apellido = $3,
			email = $4,
			telefono = $5,
			direccion = $6,
			updated_at = $7
		WHERE id = $1
	`,
		c.ID,
		c.Nombre,
		c.Apellido,
		c.Email,
		c.Telefono,
		c.Direccion,
		c.UpdatedAt,
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

func (r *ClientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return clients.Client{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, nombre, apellido, email, telefono, direccion, created_at, updated_at
		FROM clientes
		WHERE id = $1
	`, id)

	var c clients.Client
	if err := row.Scan(
		&c.ID,
		&c.Nombre,
		&c.Apellido,
		&c.Email,
		&c.Telefono,
		&c.Direccion,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return clients.Client{}, ErrNotFound
		}
		return clients.Client{}, err
	}
	return c, nil
}

func (r *ClientsRepo) List(ctx context.Context) ([]clients.Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nombre, apellido, email, telefono, direccion, created_at, updated_at
		FROM clientes
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]clients.Client, 0)
	for rows.Next() {
		var c clients.Client
		if err := rows.Scan(
			&c.ID,
			&c.Nombre,
			&c.Apellido,
			&c.Email,
			&c.Telefono,
			&c.Direccion,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

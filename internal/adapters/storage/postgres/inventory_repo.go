package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-clinic-backend/internal/domain/inventory"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (r *InventoryRepo) Create(ctx context.Context, it inventory.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventario (
			id, nombre, descripcion, cantidad, nivel_reorden, precio,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		it.ID,
		it.Nombre,
		it.Descripcion,
		it.Cantidad,
		it.NivelReorden,
		it.Precio,
		it.CreatedAt,
		it.UpdatedAt,
	)
	return err
}

func (r *InventoryRepo) Update(ctx context.Context, it inventory.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventario
		SET
			nombre = $2,
			descripcion = $3,
			cantidad = $4,
			nivel_reorden = $5,
			precio = $6,
			updated_at = $7
		WHERE id = $1
	`,
		it.ID,
		it.Nombre,
		it.Descripcion,
		it.Cantidad,
		it.NivelReorden,
		it.Precio,
		it.UpdatedAt,
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

func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventario WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return inventory.Item{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, nombre, descripcion, cantidad, nivel_reorden, precio, created_at, updated_at
		FROM inventario
		WHERE id = $1
	`, id)

	var it inventory.Item
	if err := row.Scan(
		&it.ID,
		&it.Nombre,
		&it.Descripcion,
		&it.Cantidad,
		&it.NivelReorden,
		&it.Precio,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return inventory.Item{}, ErrNotFound
		}
		return inventory.Item{}, err
	}
	return it, nil
}

func (r *InventoryRepo) List(ctx context.Context) ([]inventory.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nombre, descripcion, cantidad, nivel_reorden, precio, created_at, updated_at
		FROM inventario
		ORDER BY nombre ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Item, 0)
	for rows.Next() {
		var it inventory.Item
		if err := rows.Scan(
			&it.ID,
			&it.Nombre,
			&it.Descripcion,
			&it.Cantidad,
			&it.NivelReorden,
			&it.Precio,
			&it.CreatedAt,
			&it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

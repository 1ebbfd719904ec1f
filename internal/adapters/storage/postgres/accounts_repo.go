package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"vet-clinic-backend/internal/domain/accounts"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

// 23505 = unique_violation; usuarios tiene unique sobre email y username.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *AccountsRepo) Create(ctx context.Context, u accounts.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO usuarios (
			id, username, email,
			first_name, last_name, password_hash,
			rol, telefono, especialidad,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		u.ID,
		u.Username,
		u.Email,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		string(u.Rol),
		u.Telefono,
		u.Especialidad,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return accounts.ErrDuplicate
	}
	return err
}

func (r *AccountsRepo) Update(ctx context.Context, u accounts.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE usuarios
		SET
			username = $2,
			email = $3,
			first_name = $4,
			last_name = $5,
			password_hash = $6,
			rol = $7,
			telefono = $8,
			especialidad = $9,
			updated_at = $10
		WHERE id = $1
	`,
		u.ID,
		u.Username,
		u.Email,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		string(u.Rol),
		u.Telefono,
		u.Especialidad,
		u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return accounts.ErrDuplicate
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const userColumns = `
	id, username, email,
	first_name, last_name, password_hash,
	rol, telefono, especialidad,
	created_at, updated_at
`

func scanUser(row interface{ Scan(...any) error }) (accounts.User, error) {
	var u accounts.User
	var rol string
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&rol,
		&u.Telefono,
		&u.Especialidad,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return accounts.User{}, ErrNotFound
		}
		return accounts.User{}, err
	}
	u.Rol = accounts.Role(rol)
	return u, nil
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return accounts.User{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id)
	return scanUser(row)
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return accounts.User{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuarios WHERE email = $1`, email)
	return scanUser(row)
}

func (r *AccountsRepo) GetByUsername(ctx context.Context, username string) (accounts.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return accounts.User{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuarios WHERE username = $1`, username)
	return scanUser(row)
}

func (r *AccountsRepo) List(ctx context.Context, filter accounts.ListFilter) ([]accounts.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios`
	args := []any{}
	if filter.Rol != "" {
		query += ` WHERE rol = $1`
		args = append(args, filter.Rol)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]accounts.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type TokensRepo struct {
	db *sql.DB
}

func NewTokensRepo(db *sql.DB) *TokensRepo {
	return &TokensRepo{db: db}
}

// GetOrCreate inserta fresh solo si el usuario no tiene token; el ON CONFLICT
// sobre la unique de user_id hace la operación atómica a nivel de base, y el
// SELECT final devuelve la key ganadora sea cual sea.
func (r *TokensRepo) GetOrCreate(ctx context.Context, userID, fresh string) (accounts.Token, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tokens (key, user_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO NOTHING
	`, fresh, userID)
	if err != nil {
		return accounts.Token{}, err
	}

	var t accounts.Token
	row := r.db.QueryRowContext(ctx, `
		SELECT key, user_id, created_at FROM tokens WHERE user_id = $1
	`, userID)
	if err := row.Scan(&t.Key, &t.UserID, &t.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return accounts.Token{}, ErrNotFound
		}
		return accounts.Token{}, err
	}
	return t, nil
}

func (r *TokensRepo) GetByKey(ctx context.Context, key string) (accounts.Token, error) {
	var t accounts.Token
	row := r.db.QueryRowContext(ctx, `
		SELECT key, user_id, created_at FROM tokens WHERE key = $1
	`, key)
	if err := row.Scan(&t.Key, &t.UserID, &t.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return accounts.Token{}, ErrNotFound
		}
		return accounts.Token{}, err
	}
	return t, nil
}

package postgres

import (
	"context"

	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userColumns = `id, username, email, password_hash, nombre, rol, activo, fecha_registro`

func (r *usersRepo) scanOne(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Active, &u.RegisteredAt)
	return u, translate(err)
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO usuarios(username, email, password_hash, nombre, rol, activo)
		 VALUES($1,$2,$3,$4,$5,$6) RETURNING id, fecha_registro`,
		u.Username, u.Email, u.PasswordHash, u.Name, u.Role, u.Active,
	).Scan(&u.ID, &u.RegisteredAt)
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id=$1`, id)
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE username=$1`, username)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE email=$1`, email)
}

func (r *usersRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM usuarios ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Active, &u.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) Update(ctx context.Context, u models.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE usuarios SET email=$2, password_hash=$3, nombre=$4, rol=$5, activo=$6 WHERE id=$1`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Active,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *usersRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM usuarios WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

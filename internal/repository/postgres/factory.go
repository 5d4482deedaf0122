package postgres

import (
	"errors"

	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Books     repo.Books
	Users     repo.Users
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Books:     &booksRepo{pool},
		Users:     &usersRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}

// translate maps driver errors onto the repository sentinels. The UNIQUE
// constraints in the schema are the authoritative uniqueness guard; a 23505
// here means two writers raced past the service-level check.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repo.ErrDuplicate
	}
	return err
}

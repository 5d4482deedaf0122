package repository

import (
	"context"
	"errors"

	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
)

// Store-level error translations. Repositories map driver errors (no rows,
// unique violations) onto these so services never see pgx internals.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type Books interface {
	Create(ctx context.Context, b models.Book) (models.Book, error)
	GetByID(ctx context.Context, id int64) (models.Book, error)
	GetByISBN(ctx context.Context, isbn string) (models.Book, error)
	List(ctx context.Context, f models.BookFilter) ([]models.Book, error)
	Update(ctx context.Context, b models.Book) error
	Delete(ctx context.Context, id int64) error
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Update(ctx context.Context, u models.User) error
	Delete(ctx context.Context, id int64) error
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}

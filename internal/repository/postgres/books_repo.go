package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type booksRepo struct{ pool *pgxpool.Pool }

const bookColumns = `id, titulo, autor, isbn, categoria, estado, fecha_creacion`

func (r *booksRepo) Create(ctx context.Context, b models.Book) (models.Book, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO libros(titulo, autor, isbn, categoria, estado)
		 VALUES($1,$2,$3,$4,$5) RETURNING id, fecha_creacion`,
		b.Title, b.Author, b.ISBN, b.Category, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return models.Book{}, translate(err)
	}
	return b, nil
}

func (r *booksRepo) GetByID(ctx context.Context, id int64) (models.Book, error) {
	var b models.Book
	err := r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM libros WHERE id=$1`, id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.Status, &b.CreatedAt)
	return b, translate(err)
}

func (r *booksRepo) GetByISBN(ctx context.Context, isbn string) (models.Book, error) {
	var b models.Book
	err := r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM libros WHERE isbn=$1`, isbn,
	).Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.Status, &b.CreatedAt)
	return b, translate(err)
}

// List builds the filtered query. The sort column goes through the model
// allow-list even though the service already validated it; raw input never
// reaches the ORDER BY clause.
func (r *booksRepo) List(ctx context.Context, f models.BookFilter) ([]models.Book, error) {
	var (
		conds []string
		args  []any
	)
	like := func(col, val string) {
		args = append(args, "%"+val+"%")
		conds = append(conds, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
	}
	if f.Title != "" {
		like("titulo", f.Title)
	}
	if f.Author != "" {
		like("autor", f.Author)
	}
	if f.Category != "" {
		like("categoria", f.Category)
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("estado = $%d", len(args)))
	}

	q := `SELECT ` + bookColumns + ` FROM libros`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	col, ok := models.BookSortColumn(f.SortBy)
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	args = append(args, f.PerPage, f.Offset())
	q += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", col, dir, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *booksRepo) Update(ctx context.Context, b models.Book) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE libros SET titulo=$2, autor=$3, isbn=$4, categoria=$5, estado=$6 WHERE id=$1`,
		b.ID, b.Title, b.Author, b.ISBN, b.Category, b.Status,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *booksRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM libros WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

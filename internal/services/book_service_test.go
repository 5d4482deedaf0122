package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api/validate"
	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	"github.com/etec-programacion-3/biblioteca-backend/internal/repository/memory"
)

func newBookService() (*BookService, *memory.Books) {
	store := memory.NewBooks()
	return NewBookService(store), store
}

func mustCreateBook(t *testing.T, svc *BookService, title, author, isbn, category, status string) models.Book {
	t.Helper()
	b, err := svc.Create(context.Background(), models.BookInput{
		Title: title, Author: author, ISBN: isbn, Category: category, Status: status,
	})
	require.NoError(t, err)
	return b
}

func TestCreateBookMissingFields(t *testing.T) {
	svc, _ := newBookService()
	ctx := context.Background()

	_, err := svc.Create(ctx, models.BookInput{Title: "El Hobbit"})
	var errs validate.Errs
	require.ErrorAs(t, err, &errs)

	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.True(t, fields["autor"])
	assert.True(t, fields["isbn"])
	assert.True(t, fields["categoria"])
	assert.False(t, fields["titulo"])

	// nothing persisted
	books, err := svc.List(ctx, models.BookFilter{})
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestCreateBookDefaultsAndISBN(t *testing.T) {
	svc, _ := newBookService()
	ctx := context.Background()

	b := mustCreateBook(t, svc, "El Hobbit", "Tolkien", "9780261103283", "Fantasía", "")
	assert.Equal(t, models.BookAvailable, b.Status)
	assert.NotZero(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	_, err := svc.Create(ctx, models.BookInput{
		Title: "x", Author: "y", ISBN: "123", Category: "z",
	})
	var errs validate.Errs
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "isbn", errs[0].Field)

	_, err = svc.Create(ctx, models.BookInput{
		Title: "x", Author: "y", ISBN: "9780261103290", Category: "z", Status: "perdido",
	})
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "estado", errs[0].Field)
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	svc, _ := newBookService()
	ctx := context.Background()

	mustCreateBook(t, svc, "El Hobbit", "Tolkien", "9780261103283", "Fantasía", "")

	_, err := svc.Create(ctx, models.BookInput{
		Title: "Otro", Author: "Alguien", ISBN: "9780261103283", Category: "Fantasía",
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "isbn", conflict.Field)

	books, err := svc.List(ctx, models.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestUpdateBookPartial(t *testing.T) {
	svc, _ := newBookService()
	ctx := context.Background()

	b := mustCreateBook(t, svc, "El Hobbit", "Tolkien", "9780261103283", "Fantasía", "")

	status := models.BookBorrowed
	updated, err := svc.Update(ctx, b.ID, models.BookUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.BookBorrowed, updated.Status)
	// untouched fields survive
	assert.Equal(t, "El Hobbit", updated.Title)
	assert.Equal(t, "9780261103283", updated.ISBN)
}

func TestUpdateBookISBNConflict(t *testing.T) {
	svc, _ := newBookService()
	ctx := context.Background()

	a := mustCreateBook(t, svc, "El Hobbit", "Tolkien", "9780261103283", "Fantasía", "")
	b := mustCreateBook(t, svc, "Dune", "Herbert", "9780441172719", "Ciencia ficción", "")

	// updating a book to its own ISBN is a no-op, not a conflict
	_, err := svc.Update(ctx, a.ID, models.BookUpdate{ISBN: &a.ISBN})
	require.NoError(t, err)

	// stealing another book's ISBN is rejected and nothing changes
	_, err = svc.Update(ctx, b.ID, models.BookUpdate{ISBN: &a.ISBN})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "isbn", conflict.Field)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "9780441172719", got.ISBN)
}

func TestUpdateBookNotFound(t *testing.T) {
	svc, _ := newBookService()
	title := "x"
	_, err := svc.Update(context.Background(), 999, models.BookUpdate{Title: &title})
	assert.Error(t, err)
}

func TestDeleteBook(t *testing.T) {
	svc, _ := newBookService()
	ctx := context.Background()

	b := mustCreateBook(t, svc, "El Hobbit", "Tolkien", "9780261103283", "Fantasía", "")
	require.NoError(t, svc.Delete(ctx, b.ID))

	_, err := svc.Get(ctx, b.ID)
	assert.Error(t, err)
	assert.Error(t, svc.Delete(ctx, b.ID))
}

func seedCatalog(t *testing.T, svc *BookService) {
	t.Helper()
	mustCreateBook(t, svc, "Anna Karenina", "Tolstói", "9780000000017", "Clásicos", models.BookAvailable)
	mustCreateBook(t, svc, "Beren y Lúthien", "Tolkien", "9780000000024", "Fantasía épica", models.BookBorrowed)
	mustCreateBook(t, svc, "Cuentos completos", "Borges", "9780000000031", "Cuento", models.BookAvailable)
	mustCreateBook(t, svc, "Dune", "Herbert", "9780000000048", "Ciencia ficción", models.BookBorrowed)
	mustCreateBook(t, svc, "El Silmarillion", "Tolkien", "9780000000055", "fantasía", models.BookAvailable)
}

func TestListFilterCategory(t *testing.T) {
	svc, _ := newBookService()
	seedCatalog(t, svc)

	books, err := svc.List(context.Background(), models.BookFilter{Category: "Fantasía"})
	require.NoError(t, err)
	require.Len(t, books, 2)
	for _, b := range books {
		assert.Contains(t, []string{"Beren y Lúthien", "El Silmarillion"}, b.Title)
	}
}

func TestListFiltersCompose(t *testing.T) {
	svc, _ := newBookService()
	seedCatalog(t, svc)

	books, err := svc.List(context.Background(), models.BookFilter{
		Author: "tolkien",
		Status: models.BookAvailable,
	})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "El Silmarillion", books[0].Title)
}

func TestListPagination(t *testing.T) {
	svc, _ := newBookService()
	seedCatalog(t, svc)
	ctx := context.Background()

	page := func(n int) []models.Book {
		books, err := svc.List(ctx, models.BookFilter{SortBy: "titulo", Page: n, PerPage: 2})
		require.NoError(t, err)
		return books
	}

	p2 := page(2)
	require.Len(t, p2, 2)
	assert.Equal(t, "Cuentos completos", p2[0].Title)
	assert.Equal(t, "Dune", p2[1].Title)

	p3 := page(3)
	require.Len(t, p3, 1)
	assert.Equal(t, "El Silmarillion", p3[0].Title)

	assert.Empty(t, page(4))
}

func TestListSortStatusDesc(t *testing.T) {
	svc, _ := newBookService()
	seedCatalog(t, svc)

	books, err := svc.List(context.Background(), models.BookFilter{SortBy: "estado", Desc: true})
	require.NoError(t, err)
	require.Len(t, books, 5)
	// "prestado" > "disponible" lexically, so borrowed books come first
	assert.Equal(t, models.BookBorrowed, books[0].Status)
	assert.Equal(t, models.BookBorrowed, books[1].Status)
	assert.Equal(t, models.BookAvailable, books[2].Status)
}

func TestListInvalidQuery(t *testing.T) {
	svc, _ := newBookService()
	ctx := context.Background()

	cases := []models.BookFilter{
		{SortBy: "password_hash"},
		{SortBy: "id; DROP TABLE libros"},
		{Page: -1},
		{PerPage: -5},
		{PerPage: 101},
		{Status: "perdido"},
	}
	for _, f := range cases {
		_, err := svc.List(ctx, f)
		var qerr *QueryError
		assert.True(t, errors.As(err, &qerr), "filter %+v should be rejected", f)
	}
}

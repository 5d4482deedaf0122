package services

import (
	"context"
	"errors"
	"strings"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api/validate"
	"github.com/etec-programacion-3/biblioteca-backend/internal/metrics"
	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type BookService struct {
	books repo.Books
}

func NewBookService(books repo.Books) *BookService { return &BookService{books: books} }

// Create validates required fields, pre-checks ISBN uniqueness and inserts.
// The UNIQUE(isbn) constraint stays authoritative: a racing writer that slips
// past the pre-check still comes back as a conflict, not a 500.
func (s *BookService) Create(ctx context.Context, in models.BookInput) (models.Book, error) {
	b := models.Book{
		Title:    strings.TrimSpace(in.Title),
		Author:   strings.TrimSpace(in.Author),
		ISBN:     strings.TrimSpace(in.ISBN),
		Category: strings.TrimSpace(in.Category),
		Status:   in.Status,
	}
	if b.Status == "" {
		b.Status = models.BookAvailable
	}

	var errs validate.Errs
	for _, e := range []*validate.ErrField{
		validate.Required("titulo", b.Title),
		validate.Required("autor", b.Author),
		validate.Required("isbn", b.ISBN),
		validate.Required("categoria", b.Category),
	} {
		if e != nil {
			errs = append(errs, *e)
		}
	}
	if len(errs) > 0 {
		return models.Book{}, errs
	}
	if e := validate.ISBN("isbn", b.ISBN); e != nil {
		return models.Book{}, validate.Errs{*e}
	}
	if !models.ValidBookStatus(b.Status) {
		return models.Book{}, validate.Errs{{Field: "estado", Msg: "estado inválido"}}
	}

	if _, err := s.books.GetByISBN(ctx, b.ISBN); err == nil {
		return models.Book{}, &ConflictError{Field: "isbn", Value: b.ISBN}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.Book{}, err
	}

	created, err := s.books.Create(ctx, b)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.Book{}, &ConflictError{Field: "isbn", Value: b.ISBN}
	}
	if err != nil {
		return models.Book{}, err
	}
	metrics.CatalogWrites.WithLabelValues("create").Inc()
	return created, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (models.Book, error) {
	return s.books.GetByID(ctx, id)
}

// Update applies a partial update. A supplied ISBN may only collide with the
// book itself; colliding with a different book is a conflict and nothing is
// written.
func (s *BookService) Update(ctx context.Context, id int64, upd models.BookUpdate) (models.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return models.Book{}, err
	}

	if upd.ISBN != nil {
		isbn := strings.TrimSpace(*upd.ISBN)
		upd.ISBN = &isbn
		if e := validate.ISBN("isbn", isbn); e != nil {
			return models.Book{}, validate.Errs{*e}
		}
		if isbn != b.ISBN {
			other, err := s.books.GetByISBN(ctx, isbn)
			if err == nil && other.ID != id {
				return models.Book{}, &ConflictError{Field: "isbn", Value: isbn}
			}
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return models.Book{}, err
			}
		}
	}

	upd.Apply(&b)

	var errs validate.Errs
	for _, e := range []*validate.ErrField{
		validate.Required("titulo", b.Title),
		validate.Required("autor", b.Author),
		validate.Required("categoria", b.Category),
	} {
		if e != nil {
			errs = append(errs, *e)
		}
	}
	if !models.ValidBookStatus(b.Status) {
		errs = append(errs, validate.ErrField{Field: "estado", Msg: "estado inválido"})
	}
	if len(errs) > 0 {
		return models.Book{}, errs
	}

	if err := s.books.Update(ctx, b); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return models.Book{}, &ConflictError{Field: "isbn", Value: b.ISBN}
		}
		return models.Book{}, err
	}
	metrics.CatalogWrites.WithLabelValues("update").Inc()
	return b, nil
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}
	metrics.CatalogWrites.WithLabelValues("delete").Inc()
	return nil
}

// List runs the catalog query. Defaults are filled in here; anything outside
// the allowed ranges or the sort allow-list is rejected rather than patched up.
func (s *BookService) List(ctx context.Context, f models.BookFilter) ([]models.Book, error) {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PerPage == 0 {
		f.PerPage = DefaultPerPage
	}
	if f.SortBy == "" {
		f.SortBy = "id"
	}
	if f.Page < 1 {
		return nil, &QueryError{Msg: "pagina debe ser >= 1"}
	}
	if f.PerPage < 1 || f.PerPage > MaxPerPage {
		return nil, &QueryError{Msg: "items_por_pagina debe estar entre 1 y 100"}
	}
	if _, ok := models.BookSortColumn(f.SortBy); !ok {
		return nil, &QueryError{Msg: "campo de ordenamiento inválido: " + f.SortBy}
	}
	if f.Status != "" && !models.ValidBookStatus(f.Status) {
		return nil, &QueryError{Msg: "estado inválido: " + f.Status}
	}
	return s.books.List(ctx, f)
}

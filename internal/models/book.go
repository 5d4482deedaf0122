package models

import "time"

// Estados posibles de un libro en el catálogo.
const (
	BookAvailable = "disponible"
	BookBorrowed  = "prestado"
	BookReserved  = "reservado"
)

func ValidBookStatus(s string) bool {
	switch s {
	case BookAvailable, BookBorrowed, BookReserved:
		return true
	}
	return false
}

type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"titulo"`
	Author    string    `json:"autor"`
	ISBN      string    `json:"isbn"`
	Category  string    `json:"categoria"`
	Status    string    `json:"estado"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

// BookInput is the payload for creating a book.
type BookInput struct {
	Title    string `json:"titulo"`
	Author   string `json:"autor"`
	ISBN     string `json:"isbn"`
	Category string `json:"categoria"`
	Status   string `json:"estado"`
}

// BookUpdate is a partial update: only non-nil fields are applied.
type BookUpdate struct {
	Title    *string `json:"titulo"`
	Author   *string `json:"autor"`
	ISBN     *string `json:"isbn"`
	Category *string `json:"categoria"`
	Status   *string `json:"estado"`
}

// Apply writes the supplied fields onto b, leaving the rest untouched.
func (u BookUpdate) Apply(b *Book) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.ISBN != nil {
		b.ISBN = *u.ISBN
	}
	if u.Category != nil {
		b.Category = *u.Category
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
}

// BookFilter describes a catalog listing: AND-composed filters plus
// sorting and 1-based pagination. SortBy must come from the allow-list.
type BookFilter struct {
	Title    string
	Author   string
	Category string
	Status   string
	SortBy   string
	Desc     bool
	Page     int
	PerPage  int
}

func (f BookFilter) Offset() int { return (f.Page - 1) * f.PerPage }

// bookSortColumns is the allow-list of sortable fields. Anything outside
// this map is rejected before it gets near an ORDER BY clause.
var bookSortColumns = map[string]string{
	"id":             "id",
	"titulo":         "titulo",
	"autor":          "autor",
	"isbn":           "isbn",
	"categoria":      "categoria",
	"estado":         "estado",
	"fecha_creacion": "fecha_creacion",
}

// BookSortColumn maps a requested sort field to its storage column.
func BookSortColumn(field string) (string, bool) {
	col, ok := bookSortColumns[field]
	return col, ok
}

// Package memory provides map-backed implementations of the repository
// interfaces. They mirror the semantics of the postgres adapters, including
// uniqueness enforcement, and back the unit tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
)

type Books struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]models.Book
}

func NewBooks() *Books {
	return &Books{nextID: 1, byID: map[int64]models.Book{}}
}

func (r *Books) Create(_ context.Context, b models.Book) (models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.byID {
		if other.ISBN == b.ISBN {
			return models.Book{}, repo.ErrDuplicate
		}
	}
	b.ID = r.nextID
	r.nextID++
	b.CreatedAt = time.Now()
	r.byID[b.ID] = b
	return b, nil
}

func (r *Books) GetByID(_ context.Context, id int64) (models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return models.Book{}, repo.ErrNotFound
	}
	return b, nil
}

func (r *Books) GetByISBN(_ context.Context, isbn string) (models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.byID {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return models.Book{}, repo.ErrNotFound
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r *Books) List(_ context.Context, f models.BookFilter) ([]models.Book, error) {
	r.mu.RLock()
	matched := make([]models.Book, 0, len(r.byID))
	for _, b := range r.byID {
		if f.Title != "" && !containsFold(b.Title, f.Title) {
			continue
		}
		if f.Author != "" && !containsFold(b.Author, f.Author) {
			continue
		}
		if f.Category != "" && !containsFold(b.Category, f.Category) {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		matched = append(matched, b)
	}
	r.mu.RUnlock()

	col, ok := models.BookSortColumn(f.SortBy)
	if !ok {
		col = "id"
	}
	sort.Slice(matched, func(i, j int) bool {
		c := compareByColumn(matched[i], matched[j], col)
		if c == 0 {
			// ties break on id so pages are deterministic
			return matched[i].ID < matched[j].ID
		}
		if f.Desc {
			return c > 0
		}
		return c < 0
	})

	start := f.Offset()
	if start >= len(matched) {
		return []models.Book{}, nil
	}
	end := start + f.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func compareByColumn(a, b models.Book, col string) int {
	switch col {
	case "titulo":
		return strings.Compare(a.Title, b.Title)
	case "autor":
		return strings.Compare(a.Author, b.Author)
	case "isbn":
		return strings.Compare(a.ISBN, b.ISBN)
	case "categoria":
		return strings.Compare(a.Category, b.Category)
	case "estado":
		return strings.Compare(a.Status, b.Status)
	case "fecha_creacion":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	}
}

func (r *Books) Update(_ context.Context, b models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; !ok {
		return repo.ErrNotFound
	}
	for id, other := range r.byID {
		if id != b.ID && other.ISBN == b.ISBN {
			return repo.ErrDuplicate
		}
	}
	r.byID[b.ID] = b
	return nil
}

func (r *Books) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

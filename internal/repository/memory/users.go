package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
)

type Users struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]models.User
}

func NewUsers() *Users {
	return &Users{nextID: 1, byID: map[int64]models.User{}}
}

func (r *Users) Create(_ context.Context, u models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.byID {
		if other.Username == u.Username || other.Email == u.Email {
			return models.User{}, repo.ErrDuplicate
		}
	}
	u.ID = r.nextID
	r.nextID++
	u.RegisteredAt = time.Now()
	r.byID[u.ID] = u
	return u, nil
}

func (r *Users) GetByID(_ context.Context, id int64) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *Users) GetByUsername(_ context.Context, username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r *Users) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r *Users) List(_ context.Context, limit, offset int) ([]models.User, error) {
	r.mu.RLock()
	all := make([]models.User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return []models.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *Users) Update(_ context.Context, u models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return repo.ErrNotFound
	}
	for id, other := range r.byID {
		if id != u.ID && (other.Username == u.Username || other.Email == u.Email) {
			return repo.ErrDuplicate
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *Users) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

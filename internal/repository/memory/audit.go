package memory

import (
	"context"
	"sync"
	"time"

	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
)

type AuditLogs struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func NewAuditLogs() *AuditLogs { return &AuditLogs{} }

func (r *AuditLogs) Create(_ context.Context, l models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = int64(len(r.entries) + 1)
	l.CreatedAt = time.Now()
	r.entries = append(r.entries, l)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (r *AuditLogs) Entries() []models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out
}

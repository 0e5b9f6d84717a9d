package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/foxseedlab/nikki/internal/journal"
	"github.com/foxseedlab/nikki/internal/repository"
)

// MemoryRepository keeps everything in process memory; contents are lost on restart.
type MemoryRepository struct {
	mu     sync.RWMutex
	logs   map[string][]journal.Message
	config *journal.UserConfig
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{logs: make(map[string][]journal.Message)}
}

var _ repository.Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) GetLog(_ context.Context, date string) ([]journal.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMessages(r.logs[date]), nil
}

func (r *MemoryRepository) SaveLog(_ context.Context, date string, messages []journal.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[date] = cloneMessages(messages)
	return nil
}

func (r *MemoryRepository) ListLogDates(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dates := make([]string, 0, len(r.logs))
	for d := range r.logs {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	return dates, nil
}

func (r *MemoryRepository) DeleteLogs(_ context.Context, dates []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range dates {
		delete(r.logs, d)
	}
	return nil
}

func (r *MemoryRepository) ExportLogs(_ context.Context) (map[string][]journal.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]journal.Message, len(r.logs))
	for d, msgs := range r.logs {
		out[d] = cloneMessages(msgs)
	}
	return out, nil
}

func (r *MemoryRepository) GetUserConfig(_ context.Context) (*journal.UserConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.config == nil {
		return nil, nil
	}
	c := *r.config
	return &c, nil
}

func (r *MemoryRepository) SaveUserConfig(_ context.Context, cfg journal.UserConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = &cfg
	return nil
}

func cloneMessages(msgs []journal.Message) []journal.Message {
	out := make([]journal.Message, len(msgs))
	copy(out, msgs)
	return out
}

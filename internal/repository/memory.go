package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmeshcher/ucp-checkout/internal/model"
)

type memoryEntry struct {
	mu      sync.Mutex
	session *model.Session
}

// MemoryRepository хранит сессии в памяти процесса.
// Изменения одной сессии сериализуются её собственной блокировкой,
// наружу всегда отдаются копии.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
}

// NewMemoryRepository создаёт пустое хранилище в памяти.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*memoryEntry),
	}
}

// Close ничего не делает и нужен для совместимости с PostgresRepository.
func (r *MemoryRepository) Close() error {
	return nil
}

func (r *MemoryRepository) entry(id string) (*memoryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	return e, ok
}

// Get возвращает копию сессии.
func (r *MemoryRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, ok := r.entry(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

// Insert сохраняет новую сессию.
func (r *MemoryRepository) Insert(ctx context.Context, s *model.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; exists {
		return fmt.Errorf("%w: %s", ErrSessionExists, s.ID)
	}

	r.sessions[s.ID] = &memoryEntry{session: s.Clone()}
	return nil
}

// Update атомарно применяет fn к копии сессии и сохраняет результат.
// Если fn возвращает ошибку, сохранённая сессия не меняется.
func (r *MemoryRepository) Update(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, ok := r.entry(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	draft := e.session.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}

	e.session = draft
	return draft.Clone(), nil
}

// Len возвращает количество сохранённых сессий.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

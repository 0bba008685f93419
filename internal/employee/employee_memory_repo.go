package employee

import (
	"context"
	"sync"
	"time"

	employeeerrors "go-employee/internal/employee/errors"
)

type memoryRepository struct {
	mu     sync.RWMutex
	nextID int
	rows   map[int]Employee
}

// NewMemoryRepository keeps employees in process memory. Records are copied
// in and out so callers never share state with the store.
func NewMemoryRepository(seed ...Employee) Repository {
	r := &memoryRepository{nextID: 1, rows: make(map[int]Employee)}
	for _, e := range seed {
		e := e
		_ = r.Create(context.Background(), &e)
	}
	return r
}

func (r *memoryRepository) FindAll(ctx context.Context) ([]Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Employee, 0, len(r.rows))
	for id := 1; id < r.nextID; id++ {
		if e, ok := r.rows[id]; ok {
			out = append(out, clone(e))
		}
	}
	return out, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id int) (*Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rows[id]
	if !ok {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	e = clone(e)
	return &e, nil
}

func (r *memoryRepository) Create(ctx context.Context, empl *Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	empl.ID = r.nextID
	empl.CreatedAt = now
	empl.UpdatedAt = now
	r.nextID++
	r.rows[empl.ID] = clone(*empl)
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, empl *Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[empl.ID]; !ok {
		return employeeerrors.ErrEmployeeNotFound
	}
	empl.UpdatedAt = time.Now().UTC()
	r.rows[empl.ID] = clone(*empl)
	return nil
}

func clone(e Employee) Employee {
	if e.PhotoPath != nil {
		p := *e.PhotoPath
		e.PhotoPath = &p
	}
	return e
}

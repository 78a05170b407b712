package records

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory. It backs the CLI
// entrypoint and tests; every method returns copies so callers never
// alias internal state.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	courses []CourseBooking
	spa     []SpaBooking
	lost    []LostReport
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) CourseBookings(_ context.Context, userID string) ([]CourseBooking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []CourseBooking
	for _, b := range m.courses {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemoryStore) AddCourseBooking(_ context.Context, b *CourseBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.nextID
	m.nextID++
	m.courses = append(m.courses, *b)
	return nil
}

func (m *MemoryStore) UpdateCourseBooking(_ context.Context, b *CourseBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.courses {
		if m.courses[i].ID == b.ID {
			m.courses[i] = *b
			return nil
		}
	}
	return ErrRecordNotFound
}

func (m *MemoryStore) SpaBookings(_ context.Context, userID string) ([]SpaBooking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []SpaBooking
	for _, b := range m.spa {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemoryStore) AddSpaBooking(_ context.Context, b *SpaBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.nextID
	m.nextID++
	m.spa = append(m.spa, *b)
	return nil
}

func (m *MemoryStore) UpdateSpaBooking(_ context.Context, b *SpaBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.spa {
		if m.spa[i].ID == b.ID {
			m.spa[i] = *b
			return nil
		}
	}
	return ErrRecordNotFound
}

func (m *MemoryStore) LostReports(_ context.Context, userID string) ([]LostReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []LostReport
	for _, r := range m.lost {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) AddLostReport(_ context.Context, r *LostReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextID
	m.nextID++
	m.lost = append(m.lost, *r)
	return nil
}

// SeedCourseBooking inserts a booking directly, for tests.
func (m *MemoryStore) SeedCourseBooking(b CourseBooking) {
	_ = m.AddCourseBooking(context.Background(), &b)
}

// SeedSpaBooking inserts a booking directly, for tests.
func (m *MemoryStore) SeedSpaBooking(b SpaBooking) {
	_ = m.AddSpaBooking(context.Background(), &b)
}

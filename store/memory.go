package store

import (
	"context"
	"sort"
	"sync"

	"taskmanager/models"

	"github.com/google/uuid"
)

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]models.User
	tasks      map[string]models.Task
	order      []string
	categories []models.Category
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]models.User),
		tasks: make(map[string]models.Task),
	}
}

func (s *MemoryStore) FindUser(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) InsertUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.Username] = user
	return nil
}

func (s *MemoryStore) ListTasks(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id])
	}
	return tasks, nil
}

func (s *MemoryStore) FindTask(_ context.Context, id string) (*models.Task, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) InsertTask(_ context.Context, task models.Task) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = uuid.NewString()
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	return task.ID, nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, id string, task models.Task) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	task.ID = id
	s.tasks[id] = task
	return nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id string) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := append([]models.Category(nil), s.categories...)
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].CategoryName < categories[j].CategoryName
	})
	return categories, nil
}

func (s *MemoryStore) InsertCategory(_ context.Context, category models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = append(s.categories, category)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Package store holds the document collections behind the task manager:
// users, tasks and categories.
package store

import (
	"context"
	"errors"
	"strings"

	"taskmanager/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no document matches the lookup.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned for task ids that are not store-generated UUIDs.
	ErrInvalidID = errors.New("invalid document id")
)

const (
	usersCollection      = "users"
	tasksCollection      = "tasks"
	categoriesCollection = "categories"
)

// Store is the persistence contract shared by every backend.
type Store interface {
	FindUser(ctx context.Context, username string) (*models.User, error)
	InsertUser(ctx context.Context, user models.User) error

	ListTasks(ctx context.Context) ([]models.Task, error)
	FindTask(ctx context.Context, id string) (*models.Task, error)
	InsertTask(ctx context.Context, task models.Task) (string, error)
	UpdateTask(ctx context.Context, id string, task models.Task) error
	DeleteTask(ctx context.Context, id string) error

	// ListCategories returns categories sorted ascending by name.
	ListCategories(ctx context.Context) ([]models.Category, error)
	InsertCategory(ctx context.Context, category models.Category) error

	Ping(ctx context.Context) error
}

// ParseID normalizes a task id, rejecting anything that is not a UUID.
func ParseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

// SeedCategories inserts the named categories that are not stored yet.
func SeedCategories(ctx context.Context, s Store, names []string) (int, error) {
	existing, err := s.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.CategoryName] = true
	}

	added := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || have[name] {
			continue
		}
		if err := s.InsertCategory(ctx, models.Category{CategoryName: name}); err != nil {
			return added, err
		}
		have[name] = true
		added++
	}
	return added, nil
}

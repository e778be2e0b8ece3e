package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"taskmanager/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps each collection as a table of JSONB documents.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the collection tables if they don't exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, collection := range []string{usersCollection, tasksCollection, categoriesCollection} {
		stmt := `CREATE TABLE IF NOT EXISTS ` + collection + ` (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    doc        JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
)`
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create collection %s: %w", collection, err)
		}
	}
	return nil
}

func (s *PostgresStore) FindUser(ctx context.Context, username string) (*models.User, error) {
	stmt := "SELECT doc FROM users WHERE doc->>'username' = $1 LIMIT 1;"
	var doc []byte
	if err := s.pool.QueryRow(ctx, stmt, username).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var u models.User
	if err := json.Unmarshal(doc, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, user models.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if _, err := s.pool.Exec(ctx, "INSERT INTO users (doc) VALUES ($1);", doc); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx, "SELECT id::text, doc FROM tasks ORDER BY created_at, id;")
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t, err := decodeTask(id, doc)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *PostgresStore) FindTask(ctx context.Context, id string) (*models.Task, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	var doc []byte
	if err := s.pool.QueryRow(ctx, "SELECT doc FROM tasks WHERE id = $1;", id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	t, err := decodeTask(id, doc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) InsertTask(ctx context.Context, task models.Task) (string, error) {
	doc, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("encode task: %w", err)
	}
	var id string
	if err := s.pool.QueryRow(ctx, "INSERT INTO tasks (doc) VALUES ($1) RETURNING id::text;", doc).Scan(&id); err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) UpdateTask(ctx context.Context, id string, task models.Task) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	tag, err := s.pool.Exec(ctx, "UPDATE tasks SET doc = $1 WHERE id = $2;", doc, id)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id string) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1;", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM categories ORDER BY doc->>'category_name' COLLATE "C" ASC;`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		var c models.Category
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("decode category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (s *PostgresStore) InsertCategory(ctx context.Context, category models.Category) error {
	doc, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("encode category: %w", err)
	}
	if _, err := s.pool.Exec(ctx, "INSERT INTO categories (doc) VALUES ($1);", doc); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func decodeTask(id string, doc []byte) (models.Task, error) {
	var t models.Task
	if err := json.Unmarshal(doc, &t); err != nil {
		return t, fmt.Errorf("decode task %s: %w", id, err)
	}
	t.ID = id
	return t, nil
}

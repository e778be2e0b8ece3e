package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"taskmanager/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each document in a hash. The tasks collection is indexed
// by a sorted set scored with a counter so listings keep insertion order.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

const maxTxRetries = 5

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

const tasksSequence = "tasks_seq"

func userKey(username string) string { return usersCollection + ":" + username }
func taskKey(id string) string       { return tasksCollection + ":" + id }

func (s *RedisStore) FindUser(ctx context.Context, username string) (*models.User, error) {
	data, err := s.client.HGetAll(ctx, userKey(username)).Result()
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return &models.User{
		Username:     data["username"],
		PasswordHash: data["password"],
	}, nil
}

func (s *RedisStore) InsertUser(ctx context.Context, user models.User) error {
	doc := map[string]any{
		"username": user.Username,
		"password": user.PasswordHash,
	}
	if err := s.client.HSet(ctx, userKey(user.Username), doc).Err(); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *RedisStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	ids, err := s.client.ZRange(ctx, tasksCollection, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, taskKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}

	tasks := []models.Task{}
	for i, cmd := range cmds {
		data := cmd.Val()
		// index entry left behind by a concurrent delete
		if len(data) == 0 {
			continue
		}
		tasks = append(tasks, taskFromHash(ids[i], data))
	}
	return tasks, nil
}

func (s *RedisStore) FindTask(ctx context.Context, id string) (*models.Task, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	data, err := s.client.HGetAll(ctx, taskKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	t := taskFromHash(id, data)
	return &t, nil
}

func (s *RedisStore) InsertTask(ctx context.Context, task models.Task) (string, error) {
	seq, err := s.client.Incr(ctx, tasksSequence).Result()
	if err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}

	id := uuid.NewString()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, taskKey(id), taskHash(task))
		pipe.ZAdd(ctx, tasksCollection, redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

func (s *RedisStore) UpdateTask(ctx context.Context, id string, task models.Task) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}
	key := taskKey(id)
	// HSet on a missing key would recreate the hash without its index entry,
	// so the existence check and the write run under WATCH.
	update := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, taskHash(task))
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err = s.client.Watch(ctx, update, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteTask(ctx context.Context, id string) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}
	var deleted *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, taskKey(id))
		pipe.ZRem(ctx, tasksCollection, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if deleted.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	names, err := s.client.SMembers(ctx, categoriesCollection).Result()
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	// byte order, independent of the server's LC_COLLATE
	sort.Strings(names)
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.Category{CategoryName: name})
	}
	return categories, nil
}

func (s *RedisStore) InsertCategory(ctx context.Context, category models.Category) error {
	if err := s.client.SAdd(ctx, categoriesCollection, category.CategoryName).Err(); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func taskHash(t models.Task) map[string]any {
	return map[string]any{
		"category_name":    t.CategoryName,
		"task_name":        t.TaskName,
		"task_description": t.TaskDescription,
		"is_urgent":        t.IsUrgent,
		"due_date":         t.DueDate,
		"created_by":       t.CreatedBy,
	}
}

func taskFromHash(id string, data map[string]string) models.Task {
	return models.Task{
		ID:              id,
		CategoryName:    data["category_name"],
		TaskName:        data["task_name"],
		TaskDescription: data["task_description"],
		IsUrgent:        data["is_urgent"],
		DueDate:         data["due_date"],
		CreatedBy:       data["created_by"],
	}
}

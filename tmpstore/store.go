package tmpstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RendererPrefix namespaces the compiled renderer keys.
const RendererPrefix = "renderer:"

// ErrNotFound is returned when no renderer is stored under a key, or it has expired.
var ErrNotFound = errors.New("renderer not found or expired")

// Renderer is the generated source of a compiled template, kept between processes
// so that a template is parsed and generated only once per version.
type Renderer struct {
	Name       string    `json:"name"`
	Origin     string    `json:"origin"`
	Version    time.Time `json:"version"`
	Source     string    `json:"source"`
	Encoding   string    `json:"encoding"`
	Warnings   []string  `json:"warnings,omitempty"`
	CompiledAt time.Time `json:"compiled_at"`
}

type Store interface {
	SaveRenderer(ctx context.Context, key string, r Renderer, ttl time.Duration) error
	GetRenderer(ctx context.Context, key string) (*Renderer, error)
	DeleteRenderer(ctx context.Context, key string) error
}

// RendererKey builds the key of the renderer compiled from the given version of a template.
// A new version of the template gets a new key, the old entry simply expires.
func RendererKey(name string, version time.Time, encoding string) string {
	return name + "@" + strconv.FormatInt(version.UnixNano(), 10) + "#" + encoding
}

type RedisStore struct {
	client *redis.Client
}

// NewStore connects to the Redis server at addr.
func NewStore(addr string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr, // default "localhost:6379"
		Password: "",
		DB:       0,
	})

	return &RedisStore{client: rdb}
}

// Close closes the underlying client.
func (store *RedisStore) Close() error {
	return store.client.Close()
}

func (store *RedisStore) SaveRenderer(ctx context.Context, key string, r Renderer, ttl time.Duration) error {
	jsonData, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to serialize renderer: %w", err)
	}

	return store.client.Set(ctx, RendererPrefix+key, jsonData, ttl).Err()
}

// GetRenderer returns ErrNotFound if the key is missing or expired.
func (store *RedisStore) GetRenderer(ctx context.Context, key string) (*Renderer, error) {
	jsonData, err := store.client.Get(ctx, RendererPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get renderer: %w", err)
	}

	var r Renderer
	if err := json.Unmarshal([]byte(jsonData), &r); err != nil {
		return nil, fmt.Errorf("failed to parse renderer json: %w", err)
	}

	return &r, nil
}

func (store *RedisStore) DeleteRenderer(ctx context.Context, key string) error {
	return store.client.Del(ctx, RendererPrefix+key).Err()
}

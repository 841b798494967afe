package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultMaterialTTL is the default TTL for material entries (48 hours)
	DefaultMaterialTTL = 48 * time.Hour
	// DefaultFeedTTL is the default TTL for the cached feed (24 hours)
	DefaultFeedTTL = 24 * time.Hour
)

var ErrMaterialNotFound = errors.New("material not found")

// Store handles Redis operations for materials and the feed cache
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		ttl:    DefaultMaterialTTL,
	}
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SaveMaterial stores one material and registers its ID
func (s *Store) SaveMaterial(ctx context.Context, m domain.Material) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", m.MaterialKind(), err)
	}

	kind, id := m.MaterialKind(), m.MaterialID()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, MaterialKey(kind, id), data, s.ttl)
	pipe.SAdd(ctx, MaterialSetKey(kind), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", kind, id, err)
	}
	return nil
}

// SaveMaterials stores every material of m (bulk operation)
func (s *Store) SaveMaterials(ctx context.Context, m domain.Materials) error {
	pipe := s.client.Pipeline()

	add := func(item domain.Material) error {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s: %w", item.MaterialKind(), item.MaterialID(), err)
		}
		pipe.Set(ctx, MaterialKey(item.MaterialKind(), item.MaterialID()), data, s.ttl)
		pipe.SAdd(ctx, MaterialSetKey(item.MaterialKind()), item.MaterialID())
		return nil
	}

	for _, a := range m.Articles {
		if err := add(a); err != nil {
			return err
		}
	}
	for _, p := range m.Products {
		if err := add(p); err != nil {
			return err
		}
	}
	for _, ma := range m.Media {
		if err := add(ma); err != nil {
			return err
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save materials: %w", err)
	}
	return nil
}

func getMaterial[T any](ctx context.Context, c *redis.Client, kind domain.Kind, id string) (*T, error) {
	data, err := c.Get(ctx, MaterialKey(kind, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s %s: %w", kind, id, ErrMaterialNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", kind, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", kind, err)
	}
	return &v, nil
}

func getAll[T any](ctx context.Context, c *redis.Client, kind domain.Kind) ([]*T, error) {
	ids, err := c.SMembers(ctx, MaterialSetKey(kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s IDs: %w", kind, err)
	}

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		v, err := getMaterial[T](ctx, c, kind, id)
		if err != nil {
			// Expired entries leave their ID behind; skip them.
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Store) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	return getMaterial[domain.Article](ctx, s.client, domain.KindArticle, id)
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return getMaterial[domain.Product](ctx, s.client, domain.KindProduct, id)
}

func (s *Store) GetMedia(ctx context.Context, id string) (*domain.MediaAsset, error) {
	return getMaterial[domain.MediaAsset](ctx, s.client, domain.KindMedia, id)
}

// LoadMaterials retrieves every stored material
func (s *Store) LoadMaterials(ctx context.Context) (domain.Materials, error) {
	var (
		m   domain.Materials
		err error
	)
	if m.Articles, err = getAll[domain.Article](ctx, s.client, domain.KindArticle); err != nil {
		return domain.Materials{}, err
	}
	if m.Products, err = getAll[domain.Product](ctx, s.client, domain.KindProduct); err != nil {
		return domain.Materials{}, err
	}
	if m.Media, err = getAll[domain.MediaAsset](ctx, s.client, domain.KindMedia); err != nil {
		return domain.Materials{}, err
	}
	return m, nil
}

// DeleteMaterial removes a material from Redis
func (s *Store) DeleteMaterial(ctx context.Context, kind domain.Kind, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, MaterialKey(kind, id))
	pipe.SRem(ctx, MaterialSetKey(kind), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	return nil
}

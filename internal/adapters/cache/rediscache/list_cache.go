package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"registro-obras/internal/domain/casos"
	"registro-obras/internal/platform/logger"
)

const (
	genKey     = "casos:list:gen"
	defaultTTL = 60 * time.Second
)

// ListCache es la cache derivada del listado paginado de casos.
// Advisory: un fallo de Redis se loguea y se trata como miss; la
// fuente de verdad siempre es el repositorio. La invalidación es por
// generación: cada escritura exitosa bumpea un contador que forma
// parte de la key, así las páginas viejas quedan huérfanas y expiran
// solas por TTL.
type ListCache struct {
	rdb *redis.Client
	ttl time.Duration
	log logger.Logger
}

var _ casos.ListCache = (*ListCache)(nil)

// New conecta a Redis desde una URL (redis://...). Devuelve error si
// la URL no parsea o el ping falla: mejor arrancar sin cache que con
// una rota a medias.
func New(url string, log logger.Logger) (*ListCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("rediscache: parse url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("rediscache: ping: %w", err)
	}

	return &ListCache{rdb: rdb, ttl: defaultTTL, log: log}, nil
}

func (c *ListCache) GetPage(ctx context.Context, page, limit int) (casos.Page, bool) {
	key, err := c.pageKey(ctx, page, limit)
	if err != nil {
		c.warn("gen get", err)
		return casos.Page{}, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.warn("page get", err)
		}
		return casos.Page{}, false
	}

	var p casos.Page
	if err := json.Unmarshal(raw, &p); err != nil {
		c.warn("page decode", err)
		return casos.Page{}, false
	}
	return p, true
}

func (c *ListCache) SetPage(ctx context.Context, page, limit int, p casos.Page) {
	key, err := c.pageKey(ctx, page, limit)
	if err != nil {
		c.warn("gen get", err)
		return
	}

	raw, err := json.Marshal(p)
	if err != nil {
		c.warn("page encode", err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.warn("page set", err)
	}
}

func (c *ListCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, genKey).Err(); err != nil {
		c.warn("invalidate", err)
	}
}

func (c *ListCache) Close() error {
	return c.rdb.Close()
}

func (c *ListCache) pageKey(ctx context.Context, page, limit int) (string, error) {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("casos:list:v%d:%d:%d", gen, page, limit), nil
}

func (c *ListCache) warn(op string, err error) {
	if c.log != nil {
		c.log.Warn("cache de listado degradada", map[string]any{"op": op, "err": err.Error()})
	}
}

package gateway

import (
	"context"
	"time"
)

// CachedResponse representa o que salvamos no Redis: a resposta já dada
// para uma submissão de checkout repetida (mesmo Idempotency-Key).
type CachedResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string][]string // bom para headers customizados
}

type IdempotencyRepository interface {
	// Get retorna a resposta cacheada se existir. nil, nil em cache miss.
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Save armazena a resposta com um TTL (Time To Live)
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}

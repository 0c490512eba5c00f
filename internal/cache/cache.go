// Package cache es el almacenamiento transitorio del flujo de login:
// sesiones, state tokens, identidades pendientes y flash messages viven
// acá con TTL. Backend memory para dev y single-node, redis para
// deployments con más de una instancia.
package cache

import (
	"context"
	"time"
)

// Client son las operaciones que usan session y state sobre el backend.
type Client interface {
	// Get lee una key. ok=false si no existe o expiró.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set escribe con TTL. ttl 0 usa el default del backend.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete borra. Borrar una key inexistente no es error.
	Delete(ctx context.Context, key string) error

	// GetDel lee y borra atómicamente. Es lo que hace read-once al
	// consumo de states: de dos consumos concurrentes de la misma key,
	// a lo sumo uno ve el valor.
	GetDel(ctx context.Context, key string) ([]byte, bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// Config selecciona e inicializa el backend.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string
	Password string
	DB       int
	Prefix   string

	// DefaultTTL aplica al backend memory cuando el caller pasa ttl 0.
	DefaultTTL time.Duration
}

func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	}
}

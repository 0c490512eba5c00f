// Package session maneja la sesión web del visitante sobre el cache
// compartido. Cada sesión es un conjunto de claves con TTL comun y un id
// opaco que viaja en cookie.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/socialgate/internal/cache"
	"github.com/dropDatabas3/socialgate/internal/security/token"
)

// Claves bien conocidas dentro de la sesión.
const (
	KeyCustomerID = "customer_id"
	KeyWebsiteID  = "website_id"
	KeyFlash      = "flash"
	KeyPending    = "social_user_data"
)

// regenKeys son las claves que sobreviven una rotación de id.
var regenKeys = []string{KeyCustomerID, KeyWebsiteID, KeyFlash}

// Store es la vista de sesión que usan servicios y controllers.
type Store interface {
	// Start crea una sesión nueva y devuelve su id.
	Start(ctx context.Context) (string, error)
	// Get devuelve el valor de una clave, con ok=false si no existe.
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	Unset(ctx context.Context, sid, key string) error
	// Consume lee y borra la clave en una sola operación.
	Consume(ctx context.Context, sid, key string) (string, bool, error)
	// RegenerateID rota el id de sesión conservando las claves de login.
	RegenerateID(ctx context.Context, sid string) (string, error)
}

type cacheStore struct {
	c   cache.Client
	ttl time.Duration
}

func NewStore(c cache.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &cacheStore{c: c, ttl: ttl}
}

func (s *cacheStore) key(sid, key string) string {
	return fmt.Sprintf("sess:%s:%s", sid, key)
}

func (s *cacheStore) Start(ctx context.Context) (string, error) {
	sid, err := token.GenerateOpaqueToken(32)
	if err != nil {
		return "", err
	}
	// Marca de existencia para distinguir sesión vacía de inexistente.
	if err := s.c.Set(ctx, s.key(sid, "_alive"), []byte("1"), s.ttl); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *cacheStore) Get(ctx context.Context, sid, key string) (string, bool, error) {
	b, ok, err := s.c.Get(ctx, s.key(sid, key))
	if err != nil || !ok {
		return "", false, err
	}
	return string(b), true, nil
}

func (s *cacheStore) Set(ctx context.Context, sid, key, value string) error {
	return s.c.Set(ctx, s.key(sid, key), []byte(value), s.ttl)
}

func (s *cacheStore) Unset(ctx context.Context, sid, key string) error {
	return s.c.Delete(ctx, s.key(sid, key))
}

func (s *cacheStore) Consume(ctx context.Context, sid, key string) (string, bool, error) {
	b, ok, err := s.c.GetDel(ctx, s.key(sid, key))
	if err != nil || !ok {
		return "", false, err
	}
	return string(b), true, nil
}

func (s *cacheStore) RegenerateID(ctx context.Context, sid string) (string, error) {
	newSID, err := s.Start(ctx)
	if err != nil {
		return "", err
	}
	for _, k := range regenKeys {
		v, ok, err := s.Get(ctx, sid, k)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if err := s.Set(ctx, newSID, k, v); err != nil {
			return "", err
		}
		_ = s.Unset(ctx, sid, k)
	}
	_ = s.c.Delete(ctx, s.key(sid, "_alive"))
	return newSID, nil
}

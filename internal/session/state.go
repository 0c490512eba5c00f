package session

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/dropDatabas3/socialgate/internal/cache"
	"github.com/dropDatabas3/socialgate/internal/security/token"
)

// stateBytes da 256 bits de entropía al token anti-CSRF.
const stateBytes = 32

// StateIssuer emite y consume los tokens de estado del flujo OAuth.
// Un token queda ligado a la sesión y al proveedor que lo emitió; emitir
// de nuevo pisa al anterior y consumir lo invalida para siempre.
type StateIssuer struct {
	c   cache.Client
	ttl time.Duration
}

func NewStateIssuer(c cache.Client, ttl time.Duration) *StateIssuer {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateIssuer{c: c, ttl: ttl}
}

func stateKey(sid, provider string) string {
	return fmt.Sprintf("sess:%s:social:state:%s", sid, provider)
}

// Issue genera un token nuevo y lo guarda. Cualquier token previo del
// mismo proveedor en la misma sesión queda invalidado.
func (s *StateIssuer) Issue(ctx context.Context, sid, provider string) (string, error) {
	tok, err := token.GenerateOpaqueToken(stateBytes)
	if err != nil {
		return "", err
	}
	if err := s.c.Set(ctx, stateKey(sid, provider), []byte(tok), s.ttl); err != nil {
		return "", err
	}
	return tok, nil
}

// Consume valida el token recibido contra el guardado y lo borra en la
// misma operación. Devuelve false si no hay token guardado, si expiró o
// si no coincide. Un segundo Consume con el mismo token siempre falla.
func (s *StateIssuer) Consume(ctx context.Context, sid, provider, got string) (bool, error) {
	if got == "" {
		return false, nil
	}
	stored, ok, err := s.c.GetDel(ctx, stateKey(sid, provider))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return subtle.ConstantTimeCompare(stored, []byte(got)) == 1, nil
}

package session

import (
	"context"
	"encoding/json"

	"github.com/dropDatabas3/socialgate/internal/oauth"
)

// PendingData es la identidad validada que espera en sesión entre el
// callback del proveedor y la finalización del login.
type PendingData struct {
	Identity  oauth.ExternalIdentity `json:"identity"`
	Password  string                 `json:"password,omitempty"`
	WebsiteID int64                  `json:"website_id"`
}

// PutPending guarda la identidad pendiente bajo la sesión.
func PutPending(ctx context.Context, s Store, sid string, data PendingData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.Set(ctx, sid, KeyPending, string(b))
}

// TakePending lee y borra la identidad pendiente. Una segunda llamada
// devuelve ok=false.
func TakePending(ctx context.Context, s Store, sid string) (PendingData, bool, error) {
	raw, ok, err := s.Consume(ctx, sid, KeyPending)
	if err != nil || !ok {
		return PendingData{}, false, err
	}
	var data PendingData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return PendingData{}, false, err
	}
	return data, true, nil
}

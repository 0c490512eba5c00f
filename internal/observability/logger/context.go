package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext deja un logger con campos del request en el contexto. Lo usa
// el middleware de logging; todo lo que corre río abajo lo recupera con From.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From devuelve el logger del contexto, o el global si el contexto no
// trae uno (código que corre fuera de un request).
func From(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return L()
}

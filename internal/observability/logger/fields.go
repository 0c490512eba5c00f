package logger

import "go.uber.org/zap"

// Helpers de campos tipados. Fijan los nombres de campo una sola vez para
// que el mismo dato no aparezca con tres claves distintas según quién loguea.

// HTTP

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }

// Dominio

// Provider identifica el proveedor social (facebook, google).
func Provider(v string) zap.Field { return zap.String("provider", v) }

// WebsiteID es el scope de website del flujo en curso.
func WebsiteID(v int64) zap.Field { return zap.Int64("website_id", v) }

func AccountID(v string) zap.Field { return zap.String("account_id", v) }

// SessionID loguea solo un prefijo del id: el valor completo es una
// credencial.
func SessionID(v string) zap.Field {
	if len(v) > 8 {
		v = v[:8]
	}
	return zap.String("session_id", v)
}

// Ubicación en el código

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }

// Genéricos

func Err(err error) zap.Field           { return zap.Error(err) }
func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field   { return zap.Any(key, v) }

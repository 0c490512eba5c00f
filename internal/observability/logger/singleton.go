package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init construye el logger global. Idempotente: las llamadas posteriores
// a la primera no tienen efecto. main la llama antes de cualquier log.
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L devuelve el logger global, inicializándolo con defaults de dev si
// nadie llamó a Init (los tests dependen de esto).
func L() *zap.Logger {
	if instance == nil {
		Init(Config{})
	}
	return instance
}

// Sync vacía los buffers pendientes. Para el defer de main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}

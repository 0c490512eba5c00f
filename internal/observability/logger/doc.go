// Package logger expone el zap.Logger global del servicio y su propagación
// por contexto.
//
// main lo inicializa una vez:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// El middleware de logging arma un logger por request (request_id, método,
// path, session) y lo deja en el contexto; controllers y services lo
// recuperan con From:
//
//	logger.From(ctx).Info("social login started", logger.Provider(key))
//
// Los helpers de fields.go fijan los nombres de campo del dominio para que
// los logs sean consultables de forma consistente.
package logger

// Package errors define el contrato de errores HTTP del conector.
package errors

import (
	"encoding/json"
	"net/http"
)

// WriteJSON emite una respuesta JSON con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError serializa err como la envoltura {code, message, detail}.
// Cualquier error que no sea *AppError sale como error interno genérico.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)
	WriteJSON(w, appErr.HTTPStatus, struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	}{appErr.Code, appErr.Message, appErr.Detail})
}

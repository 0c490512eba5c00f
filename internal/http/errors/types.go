package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError es el error que cruza la frontera HTTP: code y message van al
// cliente, HTTPStatus al header y Err solo a los logs.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// FromError recupera el AppError de una cadena de errores, o envuelve todo
// lo demás como error interno sin filtrar la causa al cliente.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail copia el error con un detalle. Las variables predefinidas de
// abajo son compartidas: nunca se mutan en el lugar.
func (e *AppError) WithDetail(detail string) *AppError {
	out := *e
	out.Detail = detail
	return &out
}

// WithCause copia el error con la causa original.
func (e *AppError) WithCause(err error) *AppError {
	out := *e
	out.Err = err
	return &out
}

// Errores predefinidos. Los mensajes de dominio (state mismatch, OAuth,
// email) conservan el texto exacto que el storefront muestra al usuario.
var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrStateMismatch = &AppError{
		Code:       "STATE_MISMATCH",
		Message:    "Warning! State mismatch. Authentication attempt may have been compromised.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrOAuthFailed = &AppError{
		Code:       "OAUTH_FAILED",
		Message:    "Unspecified OAuth error occurred.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrEmailRequired = &AppError{
		Code:       "EMAIL_REQUIRED",
		Message:    "Email is Null, Please enter email in your profile",
		HTTPStatus: http.StatusUnprocessableEntity,
	}

	ErrEmailConflict = &AppError{
		Code:       "EMAIL_CONFLICT",
		Message:    "A customer with the same email already exists in an associated website.",
		HTTPStatus: http.StatusConflict,
	}

	ErrProviderNotFound = &AppError{
		Code:       "PROVIDER_NOT_FOUND",
		Message:    "El proveedor de login solicitado no existe o está deshabilitado.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "El método HTTP no está permitido para este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Ha excedido el límite de solicitudes. Intente más tarde.",
		HTTPStatus: http.StatusTooManyRequests,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error interno en el servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "El servicio no está disponible temporalmente.",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)

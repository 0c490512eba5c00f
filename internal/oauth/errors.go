package oauth

import "errors"

// Taxonomía de errores del borde con el proveedor. Los errores crudos de
// transporte no salen de este paquete: se convierten acá a una de estas
// categorías, con el texto del proveedor cuando lo hay.
var (
	// ErrExchangeFailed: el token endpoint respondió non-2xx o sin access_token.
	ErrExchangeFailed = errors.New("oauth: token exchange failed")

	// ErrVerifyFailed: la verificación secundaria del access token falló.
	ErrVerifyFailed = errors.New("oauth: access token verification failed")

	// ErrProfileUnavailable: el profile endpoint respondió non-2xx.
	ErrProfileUnavailable = errors.New("oauth: profile unavailable")

	// ErrProfileInvalid: el body del profile endpoint no parsea o no trae id.
	ErrProfileInvalid = errors.New("oauth: invalid profile response")

	// ErrNetworkFailure: timeout o fallo de transporte antes de tener respuesta.
	ErrNetworkFailure = errors.New("oauth: network failure")
)

// genericOAuthError es el mensaje user-facing cuando el proveedor no dio
// ninguno.
const genericOAuthError = "Unspecified OAuth error occurred."

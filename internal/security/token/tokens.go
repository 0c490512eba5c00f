// Package token genera los valores aleatorios del flujo: ids de sesión,
// states de OAuth y credenciales provisionales.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateOpaqueToken devuelve nBytes de entropía cruda en base64url sin
// padding. 32 bytes alcanzan los 256 bits que piden los states.
func GenerateOpaqueToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Package resettoken emite y valida tokens de reseteo de password.
// Se usan en el correo de bienvenida de cuentas creadas desde un login
// social sin password, para que el usuario defina una credencial propia.
package resettoken

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const audience = "password-reset"

var (
	ErrInvalid = errors.New("invalid_reset_token")
	ErrExpired = errors.New("reset_token_expired")
)

// Issuer firma tokens HS256 con un secreto compartido.
type Issuer struct {
	Secret []byte
	TTL    time.Duration // ej: 1h
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{Secret: []byte(secret), TTL: ttl}
}

// Issue emite un token para la cuenta indicada.
func (i *Issuer) Issue(accountID string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.TTL)

	claims := jwtv5.MapClaims{
		"sub": accountID,
		"aud": audience,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tk.SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma, audiencia y expiración. Devuelve el account id.
func (i *Issuer) Parse(token string) (string, error) {
	tok, err := jwtv5.Parse(token, func(t *jwtv5.Token) (any, error) {
		return i.Secret, nil
	}, jwtv5.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	if !tok.Valid {
		return "", ErrInvalid
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return "", ErrInvalid
	}
	if aud, _ := claims["aud"].(string); aud != audience {
		return "", ErrInvalid
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalid
	}
	return sub, nil
}

// Package token issues and verifies the stateless HS256 bearer tokens used
// by the auth endpoints. Tokens are self-contained: the server keeps no
// session state, so signature and expiry are the only lifetime bounds.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalido is the single error Verify returns. Forged, malformed and
// expired tokens are deliberately indistinguishable so responses cannot be
// used as an oracle.
var ErrTokenInvalido = errors.New("token inválido o expirado")

// Claims are the identity claims embedded in every token.
type Claims struct {
	EmpleadoID int    `json:"empleadoId"`
	Nombres    string `json:"nombres"`
	Paterno    string `json:"paterno"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a server-held secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue mints a signed token for the given identity with expiry now+ttl.
func (i *Issuer) Issue(empleadoID int, nombres, paterno string) (string, error) {
	now := time.Now()
	claims := Claims{
		EmpleadoID: empleadoID,
		Nombres:    nombres,
		Paterno:    paterno,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Verify decodes the token and checks signature and expiry. Any failure maps
// to ErrTokenInvalido.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrTokenInvalido
	}
	return claims, nil
}

// Package jwt signs and verifies the session tokens issued by the site.
package jwt

import (
	"github.com/Laisky/errors/v2"
	jwtLib "github.com/golang-jwt/jwt/v5"
)

var secret []byte

func Initialize(s []byte) error {
	if len(s) == 0 {
		return errors.New("empty jwt secret")
	}

	secret = s
	return nil
}

// Sign issues a signed HS256 token for the given claims.
func Sign(claims jwtLib.Claims) (string, error) {
	token, err := jwtLib.NewWithClaims(jwtLib.SigningMethodHS256, claims).
		SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return token, nil
}

// Parse verifies the signature and standard claims of token into claims.
func Parse(token string, claims jwtLib.Claims) error {
	_, err := jwtLib.ParseWithClaims(token, claims,
		func(t *jwtLib.Token) (any, error) {
			if _, ok := t.Method.(*jwtLib.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
			}

			return secret, nil
		},
		jwtLib.WithExpirationRequired(),
		jwtLib.WithIssuedAt(),
	)
	if err != nil {
		return errors.Wrap(err, "parse token")
	}

	return nil
}

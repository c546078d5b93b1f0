package jwt

import (
	jwtLib "github.com/golang-jwt/jwt/v5"
)

// DeckClaims is the payload of the investor-deck session cookie.
// It records which investor the original access code was issued to;
// the token itself is the capability, independent of the code's lifecycle.
type DeckClaims struct {
	jwtLib.RegisteredClaims
	InvestorName string `json:"investor_name"`
}

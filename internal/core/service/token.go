package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read from a bearer token without its key.
type TokenInfo struct {
	Subject   string    `json:"subject,omitempty"   yaml:"subject,omitempty"`
	IssuedAt  time.Time `json:"issuedAt,omitzero"   yaml:"issuedAt,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"  yaml:"expiresAt,omitempty"`
	Expired   bool      `json:"expired"             yaml:"expired"`
}

// InspectToken decodes the claims of a JWT without verifying its signature.
// The result is informational only; the session is never dropped because of
// it, the backend stays the judge of validity.
func InspectToken(token string, now time.Time) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("inspect token: %w", err)
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		info.Subject = sub
	} else if id, ok := claims["id"].(string); ok {
		info.Subject = id
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = !now.Before(exp.Time)
	}
	return info, nil
}

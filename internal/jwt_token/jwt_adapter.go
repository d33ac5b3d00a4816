package jwttoken

import (
	"byggekrav/internal/platform/middleware"
)

// JWTServiceAdapter bridges JWTService to the middleware validator
// interface.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{
		PartyID: claims.PartyID,
		Role:    claims.Role,
	}, nil
}

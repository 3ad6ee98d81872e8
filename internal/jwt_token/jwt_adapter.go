package jwttoken

import (
	"context"

	"a2admin/pkg/platform/middleware/auth"
)

// VerifierAdapter exposes JWTService as an auth.TokenVerifier.
type VerifierAdapter struct {
	service *JWTService
}

func NewVerifierAdapter(service *JWTService) *VerifierAdapter {
	return &VerifierAdapter{service: service}
}

func (a *VerifierAdapter) VerifyToken(_ context.Context, token string) (*auth.Claims, error) {
	claims, err := a.service.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &auth.Claims{Subject: claims.Subject, Email: claims.Email}, nil
}

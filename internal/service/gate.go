package service

import (
	"strings"

	"github.com/jonnronanmn/movies-api/internal/models"
)

// Authenticate convierte el valor del header Authorization en una identidad.
func (s *TokenService) Authenticate(header string) (*models.Identity, error) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, unauthenticated("missing or invalid Authorization header")
	}

	id, err := s.Verify(strings.TrimSpace(raw))
	if err != nil {
		return nil, unauthenticated("invalid or expired token")
	}
	return id, nil
}

func RequireAdmin(id *models.Identity) error {
	if id == nil {
		return unauthenticated("no identity in request")
	}
	if !id.IsAdmin {
		return &Error{Kind: ErrForbidden, Msg: "admin only"}
	}
	return nil
}

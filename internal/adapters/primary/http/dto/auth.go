package dto

import (
	"path"
	"strings"
	"time"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/services"
)

type LoginRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PrincipalResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	ReadOnly bool   `json:"read_only"`
}

type LoginResponse struct {
	Token     string            `json:"token"`
	TokenType string            `json:"token_type"`
	ExpiresAt string            `json:"expires_at"`
	User      PrincipalResponse `json:"user"`
}

func ToPrincipalResponse(p domain.Principal) PrincipalResponse {
	return PrincipalResponse{ID: p.UserID, Name: p.Name, Role: string(p.Role), ReadOnly: !p.Role.CanWrite()}
}

func ToLoginResponse(s *services.Session) LoginResponse {
	return LoginResponse{
		Token:     s.Token,
		TokenType: "Bearer",
		ExpiresAt: s.ExpiresAt.Format(time.RFC3339),
		User:      ToPrincipalResponse(s.Principal),
	}
}

// baseName strips both local paths and object keys down to the file name.
func baseName(p string) string {
	return path.Base(strings.ReplaceAll(p, `\`, "/"))
}

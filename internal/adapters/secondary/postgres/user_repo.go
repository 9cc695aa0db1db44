package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/ports/output"
)

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) ports.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{}
	var role string
	err := r.db.QueryRow(ctx, `
		SELECT id_usuario, contrasena, nombres, apellidos, rol
		FROM usuario
		WHERE id_usuario = $1
	`, id).Scan(&u.ID, &u.PasswordHash, &u.FirstNames, &u.LastNames, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Role = domain.Role(role)
	return u, nil
}

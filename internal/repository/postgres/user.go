package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/game-portal/internal/apperror"
	"github.com/sakif/game-portal/internal/dbx"
	"github.com/sakif/game-portal/internal/model"
	"github.com/sakif/game-portal/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

type UserStore struct {
	conn dbx.DBTX
}

func (db *DB) Users() *UserStore {
	return &UserStore{conn: db.conn}
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO usuarios (username, email, password, es_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := s.conn.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Password, user.IsAdmin,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("El usuario o email ya existe")
		}
		return fmt.Errorf("postgres: creating user %q: %w", user.Username, err)
	}
	return nil
}

func (s *UserStore) GetByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	query := `SELECT id, username, email, password, es_admin FROM usuarios
		WHERE username = $1 AND password = $2`

	u := &model.User{}
	err := s.conn.QueryRowContext(ctx, query, username, password).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
		}
		return nil, fmt.Errorf("postgres: getting user by credentials: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, email, password, es_admin FROM usuarios
		WHERE username = $1`

	u := &model.User{}
	err := s.conn.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: fmt.Sprintf("user %q not found", username)}
		}
		return nil, fmt.Errorf("postgres: getting user %q: %w", username, err)
	}
	return u, nil
}

package sqlite

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

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore is the credential half of the database.
type UserStore struct {
	conn dbx.DBTX
}

// Users returns the credential store bound to the pool.
func (db *DB) Users() *UserStore {
	return &UserStore{conn: db.conn}
}

const userColumns = `id, username, email, password, es_admin`

// Create inserts a user. RETURNING hands back the AUTOINCREMENT id in the
// same statement, so no second query is needed.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	err := s.conn.QueryRowContext(ctx,
		`INSERT INTO usuarios (username, email, password, es_admin)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`,
		user.Username,
		user.Email,
		user.Password,
		user.IsAdmin,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("El usuario o email ya existe")
		}
		return fmt.Errorf("sqlite: creating user %q: %w", user.Username, err)
	}
	return nil
}

// GetByCredentials matches username and password exactly.
func (s *UserStore) GetByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE username = ? AND password = ?`,
		username, password,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
		}
		return nil, fmt.Errorf("sqlite: getting user by credentials: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE username = ?`,
		username,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: fmt.Sprintf("user %q not found", username)}
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.IsAdmin); err != nil {
		return nil, err
	}
	return &u, nil
}

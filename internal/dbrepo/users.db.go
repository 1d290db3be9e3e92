package dbrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FBNTech/ndosiphar/internal/models"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users(name, username, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		strings.TrimSpace(u.Name), strings.TrimSpace(u.Username), u.Password, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return errors.New("Duplicate Username")
		}
		return fmt.Errorf("insert user failed: %w", err)
	}
	return nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, name, username, password, role, created_at, updated_at
		FROM users WHERE id = $1
	`
	u := &models.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch user failed: %w", err)
	}
	return u, nil
}

// GetUserByUsername fetches a user for sign-in.
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, name, username, password, role, created_at, updated_at
		FROM users WHERE username = $1
		LIMIT 1
	`
	u := &models.User{}
	err := r.db.QueryRow(ctx, query, strings.TrimSpace(username)).Scan(
		&u.ID, &u.Name, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch user failed: %w", err)
	}
	return u, nil
}

// ListUsers returns users with an optional role filter, without password
// hashes.
func (r *UserRepo) ListUsers(ctx context.Context, role string) ([]*models.User, error) {
	query := `
		SELECT id, name, username, role, created_at, updated_at
		FROM users
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if role != "" {
		query += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, role)
		argIdx++
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, fmt.Errorf("database error: %s", pgErr.Message)
		}
		return nil, fmt.Errorf("query users failed: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return users, nil
}

// UpdateUser updates name, username and role. The password is changed
// only through UpdateUserPassword.
func (r *UserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users
		SET name = $2, username = $3, role = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, u.ID, strings.TrimSpace(u.Name), strings.TrimSpace(u.Username), u.Role).Scan(&u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return errors.New("this username is already taken")
			}
			return errors.New("database error: " + pgErr.Message)
		}
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// UpdateUserPassword updates the password hash only.
func (r *UserRepo) UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1
	`, userID, hashedPassword)
	if err != nil {
		return fmt.Errorf("update password failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

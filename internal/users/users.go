// Package users owns registration and credential checks for storefront
// customers. Admin credentials are handled separately by the auth package.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// InsertUser hashes the password and creates the account. Unique-constraint
// violations surface as ErrDuplicateUsername / ErrDuplicateEmail.
func (c *Conf) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	query := `
		INSERT INTO users (username, email, password_hash, address, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, email, address, phone, created_at
	`
	var u User
	err = c.db.QueryRowContext(ctx, query, nu.Username, nu.Email, string(hash), nu.Address, nu.Phone).
		Scan(&u.ID, &u.Username, &u.Email, &u.Address, &u.Phone, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return User{}, ErrDuplicateUsername
			case "users_email_key":
				return User{}, ErrDuplicateEmail
			}
		}
		return User{}, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

// Authenticate looks the user up by username and compares the password
// against the stored bcrypt hash. Unknown users and wrong passwords both
// return ErrInvalidCredentials so login responses stay uniform.
func (c *Conf) Authenticate(ctx context.Context, username, password string) (User, error) {
	query := `
		SELECT id, username, email, password_hash, address, phone, created_at
		FROM users
		WHERE username = $1
	`
	var u User
	err := c.db.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Address, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("querying user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID fetches a single user; used to prefill the checkout form.
func (c *Conf) GetByID(ctx context.Context, userID string) (User, error) {
	query := `
		SELECT id, username, email, address, phone, created_at
		FROM users
		WHERE id = $1
	`
	var u User
	err := c.db.QueryRowContext(ctx, query, userID).
		Scan(&u.ID, &u.Username, &u.Email, &u.Address, &u.Phone, &u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("querying user by id: %w", err)
	}
	return u, nil
}

// CountUsers reports the number of registered accounts for the admin
// dashboard.
func (c *Conf) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"linkhub/internal/auth"
	"linkhub/internal/models"
	"linkhub/internal/validation"
)

const userColumns = `id, username, email, full_name, password_hash, salt, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Salt,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterUser creates an account for user with the given password. The password is
// salted and hashed; ID, PasswordHash, Salt and CreatedAt are filled in on success.
func (d *DB) RegisterUser(ctx context.Context, user *models.User, password string) error {
	if valid, msg := validation.ValidateRegistration(user.Username, user.Email, password, user.FullName); !valid {
		return invalid(msg)
	}

	hash, salt, err := auth.NewCredentials(password)
	if err != nil {
		return storageError("register user", err)
	}
	user.PasswordHash = hash
	user.Salt = salt

	return d.insertUser(ctx, user)
}

func (d *DB) insertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, full_name, password_hash, salt)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := d.Pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.Salt,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return storageError("insert user", err)
	}

	return nil
}

// VerifyUser checks a username/password pair and returns the matching user.
func (d *DB) VerifyUser(ctx context.Context, username, password string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(d.Pool.QueryRow(ctx, query, username))
	if errors.Is(err, ErrUserNotFound) {
		// Spend the same hashing work as a real check.
		auth.HashPassword(password, "")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storageError("verify user", err)
	}

	if !auth.CheckPassword(password, user.Salt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves the public profile of a user.
func (d *DB) GetUserByID(ctx context.Context, id int64) (*models.PublicUser, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(d.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storageError("get user", err)
	}
	return user.Public(), nil
}

// GetOrCreateFederatedUser returns the account registered with email, creating one
// with an unusable password if none exists. Used by OIDC login.
func (d *DB) GetOrCreateFederatedUser(ctx context.Context, email, username, fullName string) (*models.PublicUser, error) {
	existing, err := d.userByEmail(ctx, email)
	if err == nil {
		return existing.Public(), nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, storageError("get federated user", err)
	}

	hash, salt, err := auth.UnusablePassword()
	if err != nil {
		return nil, storageError("create federated user", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Salt:         salt,
	}
	if !validation.ValidateUsername(user.Username) {
		user.Username = "user"
	}

	err = d.insertUser(ctx, user)
	if errors.Is(err, ErrDuplicateUser) {
		// A concurrent login for the same email won the insert.
		if existing, lookupErr := d.userByEmail(ctx, email); lookupErr == nil {
			return existing.Public(), nil
		}
		// Otherwise the username is taken by a different account.
		user.Username = user.Username + "-" + uuid.NewString()[:8]
		err = d.insertUser(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	return user.Public(), nil
}

func (d *DB) userByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, email))
}

// SeedUser creates an account unless the username or email is already registered.
func (d *DB) SeedUser(ctx context.Context, username, email, password, fullName string) error {
	hash, salt, err := auth.NewCredentials(password)
	if err != nil {
		return err
	}

	_, err = d.Pool.Exec(ctx, `
		INSERT INTO users (username, email, full_name, password_hash, salt)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`, username, email, fullName, hash, salt)
	return err
}

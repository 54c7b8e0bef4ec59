package db

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/sync/errgroup"

	"linkhub/internal/models"
)

func TestRegisterUser(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@x.com", FullName: "Alice A"}
	if err := db.RegisterUser(ctx, user, "pw1"); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	if user.ID != 1 {
		t.Errorf("RegisterUser() id = %d, want 1", user.ID)
	}
	if user.PasswordHash == "" || user.PasswordHash == "pw1" {
		t.Errorf("RegisterUser() stored hash %q", user.PasswordHash)
	}
	if len(user.Salt) != 32 {
		t.Errorf("RegisterUser() salt length = %d, want 32 hex chars", len(user.Salt))
	}
}

func TestRegisterUser_Duplicate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	first := &models.User{Username: "alice", Email: "alice@x.com", FullName: "Alice A"}
	if err := db.RegisterUser(ctx, first, "pw1"); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	sameUsername := &models.User{Username: "alice", Email: "other@x.com", FullName: "Alice B"}
	if err := db.RegisterUser(ctx, sameUsername, "pw2"); err != ErrDuplicateUser {
		t.Errorf("RegisterUser() same username error = %v, want ErrDuplicateUser", err)
	}

	sameEmail := &models.User{Username: "alice2", Email: "alice@x.com", FullName: "Alice C"}
	if err := db.RegisterUser(ctx, sameEmail, "pw3"); err != ErrDuplicateUser {
		t.Errorf("RegisterUser() same email error = %v, want ErrDuplicateUser", err)
	}
}

func TestRegisterUser_MissingFields(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := &models.User{Username: "alice", Email: "alice@x.com"}
	err := db.RegisterUser(context.Background(), user, "pw1")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("RegisterUser() error = %v, want ErrValidation", err)
	}
}

func TestVerifyUser(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@x.com", FullName: "Alice A"}
	if err := db.RegisterUser(ctx, user, "pw1"); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	found, err := db.VerifyUser(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("VerifyUser() error = %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("VerifyUser() id = %d, want %d", found.ID, user.ID)
	}

	if _, err := db.VerifyUser(ctx, "alice", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("VerifyUser() wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := db.VerifyUser(ctx, "nobody", "pw1"); err != ErrInvalidCredentials {
		t.Errorf("VerifyUser() unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	id := createUser(t, db, "bob")

	found, err := db.GetUserByID(ctx, id)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Username != "bob" || found.Email != "bob@example.com" {
		t.Errorf("GetUserByID() = %+v", found)
	}

	if _, err := db.GetUserByID(ctx, 9999); err != ErrUserNotFound {
		t.Errorf("GetUserByID() error = %v, want ErrUserNotFound", err)
	}
}

func TestGetOrCreateFederatedUser(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	existingID := createUser(t, db, "carol")

	// Existing email maps onto the existing account.
	user, err := db.GetOrCreateFederatedUser(ctx, "carol@example.com", "carol-sso", "Carol")
	if err != nil {
		t.Fatalf("GetOrCreateFederatedUser() error = %v", err)
	}
	if user.ID != existingID {
		t.Errorf("GetOrCreateFederatedUser() id = %d, want %d", user.ID, existingID)
	}

	// New email with a taken username gets a suffixed username.
	created, err := db.GetOrCreateFederatedUser(ctx, "carol2@example.com", "carol", "Carol Two")
	if err != nil {
		t.Fatalf("GetOrCreateFederatedUser() error = %v", err)
	}
	if created.ID == existingID || created.Username == "carol" {
		t.Errorf("GetOrCreateFederatedUser() = %+v, want a new account", created)
	}

	// Federated accounts cannot sign in with a password.
	if _, err := db.VerifyUser(ctx, created.Username, ""); err != ErrInvalidCredentials {
		t.Errorf("VerifyUser() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestGetOrCreateFederatedUser_Concurrent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	const logins = 8
	ids := make([]int64, logins)

	var g errgroup.Group
	for i := 0; i < logins; i++ {
		g.Go(func() error {
			user, err := db.GetOrCreateFederatedUser(ctx, "dana@example.com", "dana", "Dana")
			if err != nil {
				return err
			}
			ids[i] = user.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("GetOrCreateFederatedUser() error = %v", err)
	}

	for i, id := range ids {
		if id != ids[0] {
			t.Errorf("login %d got user %d, want %d", i, id, ids[0])
		}
	}

	var accounts int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = $1`, "dana@example.com").Scan(&accounts); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if accounts != 1 {
		t.Errorf("accounts for dana@example.com = %d, want 1", accounts)
	}
}

func TestSeedUser_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := db.SeedUser(ctx, "demo", "demo@example.com", "password123", "Demo User"); err != nil {
			t.Fatalf("SeedUser() run %d error = %v", i, err)
		}
	}

	if _, err := db.VerifyUser(ctx, "demo", "password123"); err != nil {
		t.Errorf("VerifyUser(demo) error = %v", err)
	}
}

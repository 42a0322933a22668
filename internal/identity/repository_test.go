package identity

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("HIVEMART_DB_DSN")
	if dsn == "" {
		t.Skip("HIVEMART_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	email := "repo-" + uuid.NewString() + "@example.com"
	user := &User{
		Email:        "  " + email + "  ", // trimmed and lowercased on create
		PasswordHash: "$argon2id$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		DisplayName:  "Repo Test",
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() {
		repo.db.Where("id = ?", user.ID).Delete(&User{})
	})

	byEmail, err := repo.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("find by email returned %s, want %s", byEmail.ID, user.ID)
	}

	byID, err := repo.FindByID(ctx, user.ID.String())
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Email != email {
		t.Fatalf("email = %q, want %q", byID.Email, email)
	}

	_, err = repo.FindByEmail(ctx, "missing-"+uuid.NewString()+"@example.com")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

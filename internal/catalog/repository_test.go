package catalog

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

	product := &Product{
		Slug:     "test-" + uuid.NewString(),
		Name:     "Test Honey",
		Price:    decimal.NewFromInt(1000),
		InStock:  true,
		IsActive: true,
		Variants: []Variant{
			{Name: "500g", Weight: decimal.NewFromInt(500), Unit: "g", Price: decimal.NewFromInt(600), InStock: true},
		},
		BulkDiscounts: []BulkDiscount{
			{MinQuantity: 5, DiscountPercent: decimal.NewFromInt(10)},
		},
	}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() {
		repo.db.Where("id = ?", product.ID).Delete(&Product{})
	})

	loaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(loaded.Variants) != 1 || len(loaded.BulkDiscounts) != 1 {
		t.Fatalf("associations not loaded: %+v", loaded)
	}

	bySlug, err := repo.FindBySlug(ctx, product.Slug)
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if bySlug.ID != product.ID {
		t.Fatal("slug lookup returned wrong product")
	}
}

func TestRepositoryArchiveHidesFromList(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	product := &Product{
		Slug:     "test-" + uuid.NewString(),
		Name:     "Archive Me",
		Category: "test-archive-" + uuid.NewString(),
		Price:    decimal.NewFromInt(100),
		InStock:  true,
		IsActive: true,
	}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() {
		repo.db.Where("id = ?", product.ID).Delete(&Product{})
	})

	if err := repo.Archive(ctx, product.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	listed, err := repo.List(ctx, ListFilter{Category: product.Category})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("archived product must not list: %+v", listed)
	}
}

func TestRepositoryArchiveUnknownID(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	err := repo.Archive(context.Background(), uuid.New())
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

package wishlist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hivemart/hivemart-backend/internal/catalog"
	pkgerrors "github.com/hivemart/hivemart-backend/pkg/errors"
	"github.com/hivemart/hivemart-backend/pkg/localstore"
	"github.com/hivemart/hivemart-backend/pkg/logger"
)

// The wishlist occupies its own slot key, independent of the cart's: a
// product list without quantities or discounts.
const slotPrefix = "wishlist:"

// Entry is one liked product.
type Entry struct {
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

// productChecker verifies a product exists before it is liked; satisfied by
// the catalog service.
type productChecker interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// Service manages per-session wishlists.
type Service struct {
	slots   localstore.Store
	catalog productChecker
	logg    *logger.Logger
}

// NewService builds a wishlist service.
func NewService(slots localstore.Store, catalog productChecker, logg *logger.Logger) (*Service, error) {
	if slots == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slot store is required")
	}
	if catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	return &Service{slots: slots, catalog: catalog, logg: logg}, nil
}

// List returns the session's liked products.
func (s *Service) List(ctx context.Context, sessionID string) ([]Entry, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.load(ctx, sessionID), nil
}

// Add verifies the product exists and likes it. Duplicates are ignored.
func (s *Service) Add(ctx context.Context, sessionID string, productID uuid.UUID) error {
	if sessionID == "" || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "session and product ids are required")
	}
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return err
	}

	entries := s.load(ctx, sessionID)
	id := productID.String()
	for _, entry := range entries {
		if entry.ProductID == id {
			return nil
		}
	}
	entries = append(entries, Entry{ProductID: id, AddedAt: time.Now().UTC()})
	return s.save(sessionID, entries)
}

// Remove drops the like if it exists; absent entries are a no-op.
func (s *Service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	if sessionID == "" || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "session and product ids are required")
	}

	entries := s.load(ctx, sessionID)
	id := productID.String()
	for i, entry := range entries {
		if entry.ProductID == id {
			return s.save(sessionID, append(entries[:i], entries[i+1:]...))
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, sessionID string) []Entry {
	raw, ok, err := s.slots.Get(slotPrefix + sessionID)
	if err != nil || !ok || raw == "" {
		if err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "wishlist slot read failed")
		}
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "wishlist slot corrupt, starting empty")
		}
		return nil
	}
	return entries
}

func (s *Service) save(sessionID string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode wishlist")
	}
	if err := s.slots.Set(slotPrefix+sessionID, string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist wishlist")
	}
	return nil
}

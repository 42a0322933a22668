package cart

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/hivemart/hivemart-backend/pkg/errors"
	"github.com/hivemart/hivemart-backend/pkg/logger"
	"github.com/hivemart/hivemart-backend/pkg/metrics"
)

// Syncer reconciles a session's local cart with the remote cart held for an
// authenticated identity. It runs once per sign-in transition and on explicit
// sync requests. No failure here is fatal: the local cart stays usable even
// when the remote store is unreachable.
type Syncer struct {
	remote  RemoteStore
	logg    *logger.Logger
	metrics *metrics.CartMetrics
	timeout time.Duration
}

// SyncerOptions configures a Syncer.
type SyncerOptions struct {
	Remote  RemoteStore
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
	Timeout time.Duration
}

// NewSyncer builds a syncer over the provided remote store.
func NewSyncer(opts SyncerOptions) (*Syncer, error) {
	if opts.Remote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "remote cart store is required")
	}
	return &Syncer{
		remote:  opts.Remote,
		logg:    opts.Logger,
		metrics: opts.Metrics,
		timeout: opts.Timeout,
	}, nil
}

// Sync merges the store's cart with the identity's remote cart and pushes the
// result back. The local snapshot is captured at merge start; if mutations
// race in while the round-trip is in flight, the result is re-merged once
// against the fresh local state so no locally added item is ever lost.
//
// Failure taxonomy:
//   - remote fetch fails (other than not-found): abort, local untouched,
//     CART_SYNC_FAILED returned.
//   - remote upsert fails: merged cart is still adopted locally,
//     CART_SYNC_FAILED returned so the caller can notify.
func (s *Syncer) Sync(ctx context.Context, store *Store, userID string) error {
	if store == nil || userID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store and user id are required")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	local, version := store.Snapshot()

	remote, err := s.remote.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrRemoteNotFound):
		remote = RemoteCart{}
	case err != nil:
		s.metrics.IncSyncFailure("fetch")
		s.warn(ctx, "remote cart fetch failed, keeping local cart", err)
		return pkgerrors.Wrap(pkgerrors.CodeSyncFailed, err, "fetch remote cart")
	}

	// First load on a new device: nothing local to reconcile, adopt the
	// remote cart wholesale.
	if len(local) == 0 && len(remote.Items) > 0 {
		if !store.Adopt(remote.Items, version) {
			fresh, _ := store.Snapshot()
			store.Replace(Merge(fresh, remote.Items))
		}
		s.metrics.IncSyncSuccess()
		s.metrics.ObserveMergeDuration(time.Since(start))
		return nil
	}

	merged := Merge(local, remote.Items)

	// Adopt before the network write so the user's view never waits on the
	// remote store. A failed version check means the user kept shopping
	// while the fetch was in flight: re-merge once against the fresh state.
	if !store.Adopt(merged, version) {
		fresh, freshVersion := store.Snapshot()
		merged = Merge(fresh, remote.Items)
		if !store.Adopt(merged, freshVersion) {
			// A second race: leave the local cart alone. It holds the
			// user's latest mutations; the next sync reconciles.
			merged, _ = store.Snapshot()
		}
	}

	if err := s.remote.Upsert(ctx, userID, RemoteCart{Items: merged}); err != nil {
		s.metrics.IncSyncFailure("upsert")
		s.warn(ctx, "remote cart upsert failed, local cart retained", err)
		return pkgerrors.Wrap(pkgerrors.CodeSyncFailed, err, "upsert remote cart")
	}

	s.metrics.IncSyncSuccess()
	s.metrics.ObserveMergeDuration(time.Since(start))
	return nil
}

func (s *Syncer) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, msg)
}

package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
)

func TestWrapPreservesChain(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "fetch remote cart")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped cause should be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	t.Parallel()

	inner := New(CodeSyncFailed, "upsert failed")
	wrapped := fmt.Errorf("sign-in: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeSyncFailed {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes must map to internal, got %d", meta.HTTPStatus)
	}
}

func TestSyncFailedIsRetryable(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(CodeSyncFailed)
	if !meta.Retryable {
		t.Fatal("sync failures are retryable by contract")
	}
	if meta.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", meta.HTTPStatus)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("redis: connection pool timeout")
	err := Wrap(CodeDependency, cause, "fetch remote cart")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code: %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(dump.Chain))
	}
}

func TestDumpExtractsPostgresFields(t *testing.T) {
	t.Parallel()

	pgErr := &pq.Error{
		Code:       "23505",
		Constraint: "users_email_key",
		Table:      "users",
		Detail:     "Key (email) already exists.",
		Message:    "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeConflict, pgErr, "creating user")

	dump := Dump(err)
	if dump.PGCode != "23505" {
		t.Fatalf("pg code = %q", dump.PGCode)
	}
	if dump.PGConstraint != "users_email_key" {
		t.Fatalf("pg constraint = %q", dump.PGConstraint)
	}
}

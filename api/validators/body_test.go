package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/hivemart/hivemart-backend/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","quantity":2}`))
	var payload samplePayload
	if err := DecodeJSONBody(r, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Email != "a@example.com" || payload.Quantity != 2 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","quantity":1,"extra":true}`))
	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope","quantity":0}`))
	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("details = %#v", typed.Details())
	}
	if details["email"] == "" || details["quantity"] == "" {
		t.Fatalf("missing field messages: %#v", details)
	}
}

func TestParseQueryInt(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/?limit=25", nil)
	got, err := ParseQueryInt(r, "limit", 20, 1, 100)
	if err != nil || got != 25 {
		t.Fatalf("got %d, %v", got, err)
	}

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryInt(r, "limit", 20, 1, 100)
	if err != nil || got != 20 {
		t.Fatalf("default: got %d, %v", got, err)
	}

	r = httptest.NewRequest("GET", "/?limit=abc", nil)
	if _, err := ParseQueryInt(r, "limit", 20, 1, 100); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("non-numeric: got %v", err)
	}

	r = httptest.NewRequest("GET", "/?limit=500", nil)
	if _, err := ParseQueryInt(r, "limit", 20, 1, 100); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("out of range: got %v", err)
	}
}

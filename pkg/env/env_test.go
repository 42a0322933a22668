package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("HIVEMART_TEST_SET", "value")
	t.Setenv("HIVEMART_TEST_EMPTY", "")

	if got := Get("HIVEMART_TEST_SET", "fallback"); got != "value" {
		t.Fatalf("set var = %q, want value", got)
	}
	if got := Get("HIVEMART_TEST_EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("empty var = %q, want fallback", got)
	}
	if got := Get("HIVEMART_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("missing var = %q, want fallback", got)
	}
}

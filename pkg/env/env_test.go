package env

import "testing"

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("VITRINA_TEST_BLANK", "   ")
	if got := Get("VITRINA_TEST_BLANK", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("VITRINA_TEST_SET", " value ")
	if got := Get("VITRINA_TEST_SET", "fallback"); got != "value" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestFirst(t *testing.T) {
	t.Setenv("VITRINA_TEST_A", "")
	t.Setenv("VITRINA_TEST_B", "8080")
	if got := First("3000", "VITRINA_TEST_A", "VITRINA_TEST_B"); got != "8080" {
		t.Fatalf("expected 8080, got %q", got)
	}
	if got := First("3000", "VITRINA_TEST_A"); got != "3000" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

package middleware

import (
	"strings"
	"testing"
)

func TestSanitizeRequestBody(t *testing.T) {
	t.Run("masks secret fields", func(t *testing.T) {
		got := sanitizeRequestBody(`{"token":"abc123","message":"hi"}`)
		if strings.Contains(got, "abc123") {
			t.Fatalf("secret leaked into log body: %s", got)
		}
		if !strings.Contains(got, "[SECRET]") {
			t.Fatalf("expected masked secret, got %s", got)
		}
	})

	t.Run("replaces image payloads with a size label", func(t *testing.T) {
		payload := strings.Repeat("A", 2048)
		got := sanitizeRequestBody(`{"image_base64":"` + payload + `"}`)
		if strings.Contains(got, payload) {
			t.Fatal("image payload leaked into log body")
		}
		if !strings.Contains(got, "KB-scale") {
			t.Fatalf("expected a size label, got %s", got)
		}
	})

	t.Run("non-JSON bodies are not echoed", func(t *testing.T) {
		if got := sanitizeRequestBody("raw bytes here"); got != "[non-JSON body]" {
			t.Fatalf("unexpected result: %s", got)
		}
	})
}

func TestSizeLabel(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{100, "small"},
		{4096, "KB-scale"},
		{5 * 1024 * 1024, "MB-scale"},
	}

	for _, c := range cases {
		if got := sizeLabel(c.n); got != c.want {
			t.Fatalf("sizeLabel(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

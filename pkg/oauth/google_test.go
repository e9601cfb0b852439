package oauth

import (
	"strings"
	"testing"
)

func TestEnabled(t *testing.T) {
	if NewGoogleVerifier(GoogleConfig{}).Enabled() {
		t.Fatal("verifier without credentials must be disabled")
	}
	v := NewGoogleVerifier(GoogleConfig{ClientID: "id", ClientSecret: "secret"})
	if !v.Enabled() {
		t.Fatal("verifier with credentials must be enabled")
	}
}

func TestConsentURL(t *testing.T) {
	v := NewGoogleVerifier(GoogleConfig{
		ClientID:     "client-123",
		ClientSecret: "secret",
		RedirectURL:  "https://app.example.com/api/v1/auth/google/callback",
	})

	url := v.ConsentURL("state-token")
	for _, want := range []string{"client-123", "state-token", "userinfo.email"} {
		if !strings.Contains(url, want) {
			t.Fatalf("consent URL %q is missing %q", url, want)
		}
	}
}

package auth

import "testing"

func TestGenerateResetToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		token, err := GenerateResetToken()
		if err != nil {
			t.Fatalf("unexpected error generating token: %v", err)
		}
		if len(token) != 64 {
			t.Fatalf("expected 64 hex characters, got %d", len(token))
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("token %s generated twice", token)
		}
		seen[token] = struct{}{}
	}
}

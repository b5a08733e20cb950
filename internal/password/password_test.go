package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	stored, err := Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	parts := strings.Split(stored, ":")
	if len(parts) != 3 {
		t.Fatalf("expected salt:iterations:hash, got %q", stored)
	}
	if parts[1] != "310000" {
		t.Fatalf("expected 310000 iterations, got %s", parts[1])
	}
	if !Verify("password123", stored) {
		t.Fatalf("expected password to verify")
	}
	if Verify("password124", stored) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := Hash("password123")
	b, _ := Hash("password123")
	if a == b {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestVerifyMalformedStored(t *testing.T) {
	for _, stored := range []string{"", "abc", "salt:notanint:hash", "salt:0:hash", "salt:1000:zz"} {
		if Verify("password123", stored) {
			t.Fatalf("expected malformed hash %q to fail verification", stored)
		}
	}
}

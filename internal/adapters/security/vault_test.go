package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/reelpilot/autopost/internal/domain"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSealUnsealRoundTrip(t *testing.T) {
	t.Parallel()

	vault, err := NewAESVault(testKey)
	if err != nil {
		t.Fatalf("NewAESVault: %v", err)
	}

	for _, plaintext := range []string{"hunter2", "", "пароль с юникодом", strings.Repeat("x", 500)} {
		sealed, err := vault.Seal(plaintext)
		if err != nil {
			t.Fatalf("Seal(%q): %v", plaintext, err)
		}
		if strings.Contains(sealed, plaintext) && plaintext != "" {
			t.Fatalf("sealed output contains plaintext")
		}
		got, err := vault.Unseal(sealed)
		if err != nil {
			t.Fatalf("Unseal: %v", err)
		}
		if got != plaintext {
			t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
		}
	}
}

func TestSealIsNonDeterministic(t *testing.T) {
	t.Parallel()

	vault, err := NewAESVault(testKey)
	if err != nil {
		t.Fatalf("NewAESVault: %v", err)
	}
	first, err := vault.Seal("same secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	second, err := vault.Seal("same secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if first == second {
		t.Fatalf("two seals of the same plaintext produced identical output")
	}
}

func TestSealedFormat(t *testing.T) {
	t.Parallel()

	vault, err := NewAESVault(testKey)
	if err != nil {
		t.Fatalf("NewAESVault: %v", err)
	}
	sealed, err := vault.Seal("secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	parts := strings.Split(sealed, ":")
	if len(parts) != 2 {
		t.Fatalf("expected iv:ciphertext, got %d segments", len(parts))
	}
	if len(parts[0]) != 32 {
		t.Fatalf("iv segment should be 32 hex chars, got %d", len(parts[0]))
	}
}

func TestNewAESVaultRejectsBadKeys(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"deadbeef",
		strings.Repeat("0", 63),
		strings.Repeat("0", 65),
		strings.Repeat("z", 64),
	}
	for _, key := range cases {
		if _, err := NewAESVault(key); !errors.Is(err, domain.ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestUnsealRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	vault, err := NewAESVault(testKey)
	if err != nil {
		t.Fatalf("NewAESVault: %v", err)
	}
	cases := []string{
		"",
		"notHexAtAll",
		"aabb",
		"aabb:ccdd:eeff",
		"zzzz:" + strings.Repeat("ab", 16),
		strings.Repeat("ab", 16) + ":zzzz",
		strings.Repeat("ab", 16) + ":" + strings.Repeat("ab", 7),
	}
	for _, sealed := range cases {
		if _, err := vault.Unseal(sealed); !errors.Is(err, domain.ErrMalformedCiphertext) {
			t.Fatalf("input %q: expected ErrMalformedCiphertext, got %v", sealed, err)
		}
	}
}

func TestUnsealWithWrongKeyFails(t *testing.T) {
	t.Parallel()

	vault, err := NewAESVault(testKey)
	if err != nil {
		t.Fatalf("NewAESVault: %v", err)
	}
	other, err := NewAESVault(strings.Repeat("ff", 32))
	if err != nil {
		t.Fatalf("NewAESVault: %v", err)
	}
	sealed, err := vault.Seal("secret under the original key")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	got, err := other.Unseal(sealed)
	if err == nil && got == "secret under the original key" {
		t.Fatalf("wrong key produced the original plaintext")
	}
	if err != nil && !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
}

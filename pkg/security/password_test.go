package security

import (
	"strings"
	"testing"

	"github.com/fundihub/fundihub-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	// Low-cost parameters keep the test fast.
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := testPasswordConfig()

	hash, err := HashPassword("Sup3rSecret", cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("Sup3rSecret", hash)
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = VerifyPassword("WrongPass1", hash)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	cfg := testPasswordConfig()
	first, err := HashPassword("Sup3rSecret", cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword("Sup3rSecret", cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, encoded := range []string{"", "plaintext", "$argon2i$v=19$m=1024,t=1,p=1$abc$def"} {
		if _, err := VerifyPassword("whatever", encoded); err == nil {
			t.Fatalf("expected error for malformed hash %q", encoded)
		}
	}
}

func TestValidatePasswordComplexity(t *testing.T) {
	valid := []string{"Sup3rSecret", "Aa345678", "Xy9abcdefg"}
	for _, password := range valid {
		if err := ValidatePasswordComplexity(password); err != nil {
			t.Errorf("expected %q to pass policy: %v", password, err)
		}
	}

	invalid := []string{"Short1A", "alllower1", "ALLUPPER1", "NoDigitsHere"}
	for _, password := range invalid {
		if err := ValidatePasswordComplexity(password); err == nil {
			t.Errorf("expected %q to fail policy", password)
		}
	}
}

func TestGenerateTempPassword(t *testing.T) {
	password, err := GenerateTempPassword(16)
	if err != nil {
		t.Fatalf("generate temp password: %v", err)
	}
	if len(password) != 16 {
		t.Fatalf("expected 16 characters, got %d", len(password))
	}

	if _, err := GenerateTempPassword(0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
}

package password

import (
	"errors"
	"strings"
	"testing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	// Low cost keeps the test suite fast; production uses 12.
	cfg.Cost = 4
	return cfg
}

func TestHashVerifyRoundTrip(t *testing.T) {
	cfg := testConfig()

	hash, err := cfg.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	ok, err := cfg.Verify(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}

	ok, err = cfg.Verify(hash, "wrong password entirely")
	if err != nil {
		t.Fatalf("Verify mismatch: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestHashIsSalted(t *testing.T) {
	cfg := testConfig()

	h1, err := cfg.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := cfg.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct hashes for the same plaintext")
	}
}

func TestVerifyFailsClosedOnMalformedHash(t *testing.T) {
	cfg := testConfig()

	for _, bad := range []string{"", "not-a-hash", "$2a$xx$garbage", "$argon2id$v=19$..."} {
		ok, err := cfg.Verify(bad, "whatever")
		if ok {
			t.Fatalf("expected no match for malformed hash %q", bad)
		}
		if !errors.Is(err, ErrInvalidHash) {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", bad, err)
		}
	}
}

func TestPolicyBounds(t *testing.T) {
	cfg := testConfig()

	if _, err := cfg.Hash("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}

	long := strings.Repeat("x", 73)
	if _, err := cfg.Hash(long); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestFromEnvValidation(t *testing.T) {
	t.Setenv("CAMPUS_PASSWORD_MIN_LEN", "40")
	t.Setenv("CAMPUS_PASSWORD_MAX_LEN", "20")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error when min_len > max_len")
	}

	t.Setenv("CAMPUS_PASSWORD_MIN_LEN", "10")
	t.Setenv("CAMPUS_PASSWORD_MAX_LEN", "64")
	t.Setenv("CAMPUS_BCRYPT_COST", "10")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Policy.MinLength != 10 || cfg.Policy.MaxLength != 64 || cfg.Cost != 10 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

package auth

import (
	"strings"
	"testing"
)

// All tests use NewPasswordServiceForTest — minimal argon2 parameters so the
// suite stays fast. Verify reads the parameters out of the stored string, so
// the logic under test is identical to production.

func TestPasswordHashAndVerify(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password error = %v", err)
	}
}

func TestPasswordVerify_WrongPassword(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, err := ps.Hash("right-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "wrong-password"); err == nil {
		t.Error("Verify() should fail for a wrong password")
	}
}

func TestPasswordHash_EmptyPassword(t *testing.T) {
	ps := NewPasswordServiceForTest()

	if _, err := ps.Hash(""); err == nil {
		t.Error("Hash() should reject an empty password")
	}
}

func TestPasswordHash_FreshSaltPerCall(t *testing.T) {
	ps := NewPasswordServiceForTest()

	first, err := ps.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := ps.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// A fresh random salt per call means the same password never hashes to
	// the same string twice.
	if first == second {
		t.Error("two hashes of the same password should differ (fresh salt per call)")
	}

	// Both must still verify.
	if err := ps.Verify(first, "same-password"); err != nil {
		t.Errorf("Verify(first) error = %v", err)
	}
	if err := ps.Verify(second, "same-password"); err != nil {
		t.Errorf("Verify(second) error = %v", err)
	}
}

func TestPasswordHash_EncodedFormat(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, err := ps.Hash("whatever")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !strings.HasPrefix(hash, "argon2id$v=19$") {
		t.Errorf("hash = %q, want argon2id$v=19$ prefix", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 5 {
		t.Errorf("hash has %d $-separated parts, want 5", len(parts))
	}
}

func TestPasswordVerify_ParamsReadFromHash(t *testing.T) {
	// A hash written with one parameter set must verify through a service
	// configured with another — the stored string is self-describing.
	weak := NewPasswordServiceForTest()
	strong := NewPasswordService()

	hash, err := weak.Hash("portable-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := strong.Verify(hash, "portable-password"); err != nil {
		t.Errorf("Verify() across parameter sets error = %v", err)
	}
}

func TestPasswordVerify_MalformedHash(t *testing.T) {
	ps := NewPasswordServiceForTest()

	malformed := []string{
		"",
		"not-a-hash",
		"bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",   // wrong algorithm tag
		"argon2id$v=19$m=8192,t=1,p=1$c2FsdA",        // missing hash part
		"argon2id$v=18$m=8192,t=1,p=1$c2FsdA$aGFzaA", // unsupported version
		"argon2id$v=19$garbage$c2FsdA$aGFzaA",        // unparseable params
		"argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",    // invalid base64 salt
	}

	for _, h := range malformed {
		if err := ps.Verify(h, "password"); err == nil {
			t.Errorf("Verify(%q) should fail", h)
		}
	}
}

// Package auth — password hashing utilities.
//
// WHY ARGON2ID?
// argon2id is a memory-hard password hashing function: computing one hash
// needs a configurable amount of RAM, not just CPU. That makes GPU/ASIC
// brute-forcing dramatically more expensive than with purely CPU-bound
// functions. It won the Password Hashing Competition and is the current
// OWASP recommendation for new applications.
//
// NEVER store passwords in plain text or with fast hashes (MD5, SHA-256).
// Those can be cracked with GPU-accelerated rainbow tables in minutes.
//
// Each hash gets a fresh random salt, and everything needed for verification
// is embedded in the stored string:
//
//	argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>
//	         ^    ^
//	         |    memory (KiB), time (iterations), parallelism
//	         argon2 version
//
// Because the parameters travel with the hash, they can be tuned later
// without invalidating existing accounts — old hashes verify with the old
// parameters, new hashes are written with the new ones.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Params controls the cost of hashing.
//
// COST TUNING RULE OF THUMB:
// Pick parameters so one hash takes ~100–300ms on your production hardware.
// The defaults below (64 MiB, 3 passes, 2 lanes) are the commonly
// recommended interactive-login settings.
type Argon2Params struct {
	Time      uint32 // number of passes over memory
	MemoryKiB uint32 // memory cost in KiB
	Threads   uint8  // parallelism (lanes)
	KeyLen    uint32 // length of the derived hash in bytes
	SaltLen   uint32 // length of the random salt in bytes
}

// DefaultArgon2Params are the production hashing parameters: 64 MiB memory,
// 3 iterations, 2 threads, 32-byte key, 16-byte salt.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:      3,
		MemoryKiB: 64 * 1024,
		Threads:   2,
		KeyLen:    32,
		SaltLen:   16,
	}
}

// PasswordService provides argon2id hashing and verification.
//
// It's a struct (not free functions) so the parameters can be injected —
// tests use tiny memory/time settings to stay fast without changing the
// logic being tested.
type PasswordService struct {
	params Argon2Params
}

// NewPasswordService creates a PasswordService with the default parameters.
func NewPasswordService() *PasswordService {
	return &PasswordService{params: DefaultArgon2Params()}
}

// NewPasswordServiceForTest creates a PasswordService with minimal cost
// (8 MiB, 1 pass). Use this in tests to avoid the production hashing cost
// per operation.
//
// Do NOT use in production — these parameters are far too weak.
func NewPasswordServiceForTest() *PasswordService {
	return &PasswordService{params: Argon2Params{
		Time:      1,
		MemoryKiB: 8 * 1024,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	}}
}

// Hash hashes the given plaintext password with argon2id and a fresh
// random salt.
//
// The output is a self-contained string like:
//
//	argon2id$v=19$m=65536,t=3,p=2$qL7bG0...$x91mfE...
//
// Store this string directly in the database — Verify knows how to decode it.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("auth: password must not be empty")
	}

	salt := make([]byte, p.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(plaintext), salt,
		p.params.Time, p.params.MemoryKiB, p.params.Threads, p.params.KeyLen)

	encoded := fmt.Sprintf("argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.params.MemoryKiB, p.params.Time, p.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
	return encoded, nil
}

// Verify checks whether a plaintext password matches a stored hash.
//
// Returns nil if they match, a non-nil error if they don't.
//
// TIMING SAFETY:
// The recomputed hash is compared with subtle.ConstantTimeCompare, so an
// attacker can't learn anything from response-time differences.
//
// The parameters are read from the stored string, NOT from this service —
// a hash written with older (or test) parameters still verifies correctly.
func (p *PasswordService) Verify(encoded, plaintext string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "argon2id" {
		return errors.New("auth: invalid password hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil {
		return errors.New("auth: invalid password hash version")
	}
	if version != argon2.Version {
		return fmt.Errorf("auth: unsupported argon2 version %d", version)
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return errors.New("auth: invalid password hash parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return errors.New("auth: invalid password hash salt")
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return errors.New("auth: invalid password hash")
	}

	got := argon2.IDKey([]byte(plaintext), salt, time, memory, threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return errors.New("auth: invalid password")
	}
	return nil
}

// Package auth provides concrete implementations for credential-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"identity/internal/domain/service"
	"identity/internal/errors"
)

// ErrMalformedHash is returned by Verify when the encoded hash is not a
// recognized argon2id encoding. A plain mismatch is not an error.
var ErrMalformedHash = errors.New("malformed argon2id hash")

// argon2Params holds the cost parameters baked into each encoded hash.
type argon2Params struct {
	memory      uint32 // Memory cost in KiB
	iterations  uint32 // Time cost
	parallelism uint8  // Number of parallel threads
	saltLength  uint32 // Length of the random salt. Recovered from the hash on Verify.
	keyLength   uint32 // Length of the derived key
}

// argon2Hasher is a concrete implementation of the PasswordHasher interface using argon2id.
type argon2Hasher struct {
	params argon2Params
}

// NewArgon2Hasher is the constructor for argon2Hasher.
// It returns the implementation as a service.PasswordHasher interface.
// Cost parameters follow the OWASP password storage recommendation and are
// deliberately not configurable.
func NewArgon2Hasher() service.PasswordHasher {
	return &argon2Hasher{
		params: argon2Params{
			memory:      64 * 1024, // 64 MiB
			iterations:  3,
			parallelism: 2,
			saltLength:  16,
			keyLength:   32,
		},
	}
}

// Hash generates a salted argon2id hash from a plaintext password.
// The salt is drawn from crypto/rand per call, so repeated calls with the
// same password produce different encodings.
func (h *argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "failed to generate salt")
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.iterations,
		h.params.memory,
		h.params.parallelism,
		h.params.keyLength,
	)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.memory,
		h.params.iterations,
		h.params.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))

	return encoded, nil
}

// Verify compares a plaintext password with an encoded argon2id hash.
// The cost parameters are taken from the hash itself, so hashes produced
// with older parameters keep verifying after a parameter bump.
func (h *argon2Hasher) Verify(password, encodedHash string) (bool, error) {
	params, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(password),
		salt,
		params.iterations,
		params.memory,
		params.parallelism,
		params.keyLength,
	)

	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

// decodeHash parses the standard $argon2id$v=..$m=..,t=..,p=..$salt$key encoding.
func decodeHash(encodedHash string) (*argon2Params, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, errors.Wrap(ErrMalformedHash, "invalid hash format")
	}

	if parts[1] != "argon2id" {
		return nil, nil, nil, errors.Wrap(ErrMalformedHash, "unsupported algorithm")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, errors.Wrap(ErrMalformedHash, "invalid version")
	}
	if version != argon2.Version {
		return nil, nil, nil, errors.Wrap(ErrMalformedHash, "incompatible argon2 version")
	}

	params := &argon2Params{}
	var parallelism uint
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.iterations, &parallelism); err != nil {
		return nil, nil, nil, errors.Wrap(ErrMalformedHash, "invalid cost parameters")
	}
	params.parallelism = uint8(parallelism)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, errors.Wrap(ErrMalformedHash, "invalid salt encoding")
	}
	params.saltLength = uint32(len(salt))

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, errors.Wrap(ErrMalformedHash, "invalid key encoding")
	}
	params.keyLength = uint32(len(key))

	return params, salt, key, nil
}

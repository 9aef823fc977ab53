// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., argon2id), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password. The salt is
	// random per call, so hashing the same password twice yields different
	// encodings.
	Hash(password string) (string, error)

	// Verify compares a plaintext password with an encoded hash. A
	// well-formed but non-matching hash yields (false, nil); an error is
	// returned only when the encoding itself is not recognized.
	Verify(password, hash string) (bool, error)
}

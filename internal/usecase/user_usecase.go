// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"identity/internal/domain/entity"
)

// --- Input DTOs ---

// CreateUserInput defines the data required to create a new user.
type CreateUserInput struct {
	Email    string
	FullName string
	Password string
}

// UpdateUserInput defines the data for updating an existing user.
// FullName and Password are optional: a nil pointer means the field is
// absent and keeps its stored value, while a present pointer is applied
// and validated even when it points at an empty string.
type UpdateUserInput struct {
	ID       int64
	FullName *string
	Password *string
}

// --- Output DTOs ---

// UserOutput returns a user's information to the delivery layer.
type UserOutput struct {
	User *entity.User
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., GraphQL resolvers) will depend on.
type UserUsecase interface {
	// FindUserByID looks up a user by primary key. A missing user is not an
	// error: the output carries a nil User.
	FindUserByID(ctx context.Context, id int64) (*UserOutput, error)
	// FindUserByEmail looks up a user by email address, with the same
	// absence semantics as FindUserByID.
	FindUserByEmail(ctx context.Context, email string) (*UserOutput, error)
	// CreateUser validates the input, hashes the password and persists a new user.
	CreateUser(ctx context.Context, input CreateUserInput) (*UserOutput, error)
	// UpdateUser applies the provided optional fields to an existing user.
	UpdateUser(ctx context.Context, input UpdateUserInput) (*UserOutput, error)
}

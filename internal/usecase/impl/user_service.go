// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"

	"identity/config"
	deliverycontext "identity/internal/delivery/context"
	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	"identity/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	hasher            service.PasswordHasher
	validate          *validator.Validate
	minPasswordLength int
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Config    *config.Config
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	minPasswordLength := 0
	if params.Config != nil && params.Config.Auth != nil {
		minPasswordLength = params.Config.Auth.MinPasswordLength
	}

	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		hasher:            params.Hasher,
		validate:          validator.New(),
		minPasswordLength: minPasswordLength,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// FindUserByID looks up a user by primary key. Absence is reported through a
// nil User in the output, not through an error.
func (srv *userService) FindUserByID(ctx context.Context, id int64) (*usecase.UserOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return &usecase.UserOutput{User: nil}, nil
	}
	if err != nil {
		srv.log(ctx).Error("Failed to find user by id", slog.Int64("userID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return &usecase.UserOutput{User: user}, nil
}

// FindUserByEmail looks up a user by email address, with the same absence
// semantics as FindUserByID.
func (srv *userService) FindUserByEmail(ctx context.Context, email string) (*usecase.UserOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return &usecase.UserOutput{User: nil}, nil
	}
	if err != nil {
		srv.log(ctx).Error("Failed to find user by email", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return &usecase.UserOutput{User: user}, nil
}

// CreateUser validates the input, hashes the password and persists a new user.
// Duplicate emails are not pre-checked here: the unique index on the email
// column is the single arbiter, which keeps concurrent creates race-free.
func (srv *userService) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*usecase.UserOutput, error) {
	srv.log(ctx).Info("Creating user", slog.String("email", input.Email))

	if err := srv.validateCreateInput(input); err != nil {
		return nil, err
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	user := &entity.User{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: hash,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to create user", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("User created", slog.Int64("userID", user.ID))

	return &usecase.UserOutput{User: user}, nil
}

// UpdateUser applies the provided optional fields to an existing user inside
// a single transaction, so the read-modify-write cycle is atomic. The email
// address is immutable and never touched here. UpdatedAt is refreshed on
// every successful call, even when no field value actually changed.
func (srv *userService) UpdateUser(ctx context.Context, input usecase.UpdateUserInput) (*usecase.UserOutput, error) {
	srv.log(ctx).Info("Updating user", slog.Int64("userID", input.ID))

	if err := srv.validateUpdateInput(input); err != nil {
		return nil, err
	}

	// Hash outside the transaction: key derivation is deliberately slow and
	// must not hold a database transaction open.
	var newHash string
	if input.Password != nil {
		hash, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

			return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
		}
		newHash = hash
	}

	var updatedUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, input.ID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load user for update")
		}

		if input.FullName != nil {
			user.FullName = *input.FullName
		}
		if input.Password != nil {
			user.PasswordHash = newHash
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return err
		}

		updatedUser = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute user update transaction", slog.Int64("userID", input.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("User updated", slog.Int64("userID", updatedUser.ID))

	return &usecase.UserOutput{User: updatedUser}, nil
}

// validateCreateInput checks the create DTO field by field so that the
// resulting error names the offending field.
func (srv *userService) validateCreateInput(input usecase.CreateUserInput) error {
	if err := srv.validate.Var(input.Email, "required,email"); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("email must be a valid email address")
	}
	if err := srv.validate.Var(input.FullName, "required"); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("fullName must not be empty")
	}
	if err := srv.validate.Var(input.Password, srv.passwordRule()); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(
			fmt.Sprintf("password must be at least %d characters", srv.minPasswordLength))
	}

	return nil
}

// validateUpdateInput applies the same field rules as creation, but only to
// the fields that are present. A present-but-empty field fails validation
// rather than silently keeping the stored value.
func (srv *userService) validateUpdateInput(input usecase.UpdateUserInput) error {
	if input.ID <= 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("id must be a positive integer")
	}
	if input.FullName != nil {
		if err := srv.validate.Var(*input.FullName, "required"); err != nil {
			return domainerrors.ErrValidationFailed.WrapMessage("fullName must not be empty")
		}
	}
	if input.Password != nil {
		if err := srv.validate.Var(*input.Password, srv.passwordRule()); err != nil {
			return domainerrors.ErrValidationFailed.WrapMessage(
				fmt.Sprintf("password must be at least %d characters", srv.minPasswordLength))
		}
	}

	return nil
}

func (srv *userService) passwordRule() string {
	return fmt.Sprintf("required,min=%d", srv.minPasswordLength)
}

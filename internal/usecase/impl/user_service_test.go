package impl

import (
	"context"
	"testing"
	"time"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	mockRepo "identity/internal/mocks/repository"
	mockSvc "identity/internal/mocks/service"
	"identity/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service   usecase.UserUsecase
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	hasher    *mockSvc.MockPasswordHasher
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	service := NewUserService(UserServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		Hasher:    hasher,
		Config:    newTestConfig(8),
		Logger:    newDiscardLogger(),
	})

	return userServiceFixtures{
		service:   service,
		txManager: txManager,
		userRepo:  userRepo,
		hasher:    hasher,
	}
}

func sampleUser() *entity.User {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	return &entity.User{
		ID:           42,
		Email:        "test@example.com",
		FullName:     "Test User",
		PasswordHash: "stored_hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserService_FindUserByID_Found(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	user := sampleUser()

	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

	output, err := fx.service.FindUserByID(ctx, user.ID)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, user, output.User)
}

func TestUserService_FindUserByID_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByID(ctx, int64(9999)).Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.FindUserByID(ctx, 9999)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Nil(t, output.User)
}

func TestUserService_FindUserByID_RepositoryError(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByID(ctx, int64(42)).Return(nil, errors.New("connection refused"))

	output, err := fx.service.FindUserByID(ctx, 42)

	require.Error(t, err)
	assert.Nil(t, output)
}

func TestUserService_FindUserByEmail_Found(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	user := sampleUser()

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)

	output, err := fx.service.FindUserByEmail(ctx, user.Email)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, user, output.User)
}

func TestUserService_FindUserByEmail_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.FindUserByEmail(ctx, "nobody@example.com")

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Nil(t, output.User)
}

func TestUserService_CreateUser_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.CreateUserInput{
		Email:    "new@example.com",
		FullName: "New User",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(ctx context.Context, user *entity.User) {
			user.ID = 7
			user.CreatedAt = time.Now()
			user.UpdatedAt = user.CreatedAt
		}).
		Return(nil)

	output, err := fx.service.CreateUser(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, int64(7), output.User.ID)
	assert.Equal(t, input.Email, output.User.Email)
	assert.Equal(t, input.FullName, output.User.FullName)
	assert.Equal(t, "hashed_password", output.User.PasswordHash)
}

func TestUserService_CreateUser_InvalidEmail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.CreateUserInput{
		Email:    "not-an-email",
		FullName: "New User",
		Password: "Password123!",
	}

	output, err := fx.service.CreateUser(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Nil(t, output)
}

func TestUserService_CreateUser_EmptyFullName(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.CreateUserInput{
		Email:    "new@example.com",
		FullName: "",
		Password: "Password123!",
	}

	output, err := fx.service.CreateUser(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Nil(t, output)
}

func TestUserService_CreateUser_PasswordTooShort(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.CreateUserInput{
		Email:    "new@example.com",
		FullName: "New User",
		Password: "short",
	}

	output, err := fx.service.CreateUser(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Nil(t, output)
}

func TestUserService_CreateUser_HashFailure(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.CreateUserInput{
		Email:    "new@example.com",
		FullName: "New User",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("", errors.New("entropy source unavailable"))

	output, err := fx.service.CreateUser(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
	assert.Nil(t, output)
}

func TestUserService_CreateUser_DuplicateEmail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.CreateUserInput{
		Email:    "taken@example.com",
		FullName: "New User",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Return(domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists"))

	output, err := fx.service.CreateUser(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
	assert.Nil(t, output)
}

func TestUserService_UpdateUser_FullNameOnly(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	newName := "Renamed User"
	input := usecase.UpdateUserInput{ID: 42, FullName: &newName}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByID(ctx, int64(42)).Return(sampleUser(), nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					assert.Equal(t, newName, user.FullName)
					assert.Equal(t, "stored_hash", user.PasswordHash)
					user.UpdatedAt = time.Now()
				}).
				Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.UpdateUser(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, newName, output.User.FullName)
	assert.Equal(t, "test@example.com", output.User.Email)
}

func TestUserService_UpdateUser_PasswordOnly(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	newPassword := "BrandNewPass1!"
	input := usecase.UpdateUserInput{ID: 42, Password: &newPassword}

	fx.hasher.EXPECT().Hash(newPassword).Return("new_hash", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByID(ctx, int64(42)).Return(sampleUser(), nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					assert.Equal(t, "new_hash", user.PasswordHash)
					assert.Equal(t, "Test User", user.FullName)
				}).
				Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.UpdateUser(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "new_hash", output.User.PasswordHash)
}

func TestUserService_UpdateUser_NoFieldsStillTouchesRow(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.UpdateUserInput{ID: 42}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByID(ctx, int64(42)).Return(sampleUser(), nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.UpdateUser(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "Test User", output.User.FullName)
	assert.Equal(t, "stored_hash", output.User.PasswordHash)
}

func TestUserService_UpdateUser_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	newName := "Renamed User"
	input := usecase.UpdateUserInput{ID: 9999, FullName: &newName}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByID(ctx, int64(9999)).Return(nil, repository.ErrUserNotFound)

			return fn(mockFactory)
		})

	output, err := fx.service.UpdateUser(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
	assert.Nil(t, output)
}

func TestUserService_UpdateUser_EmptyFullName(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	empty := ""
	input := usecase.UpdateUserInput{ID: 42, FullName: &empty}

	output, err := fx.service.UpdateUser(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Nil(t, output)
}

func TestUserService_UpdateUser_PasswordTooShort(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	short := "short"
	input := usecase.UpdateUserInput{ID: 42, Password: &short}

	output, err := fx.service.UpdateUser(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Nil(t, output)
}

func TestUserService_UpdateUser_InvalidID(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	newName := "Renamed User"
	input := usecase.UpdateUserInput{ID: 0, FullName: &newName}

	output, err := fx.service.UpdateUser(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Nil(t, output)
}

func TestUserService_UpdateUser_HashFailure(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	newPassword := "BrandNewPass1!"
	input := usecase.UpdateUserInput{ID: 42, Password: &newPassword}

	fx.hasher.EXPECT().Hash(newPassword).Return("", errors.New("entropy source unavailable"))

	output, err := fx.service.UpdateUser(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
	assert.Nil(t, output)
}

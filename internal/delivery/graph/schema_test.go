package graph

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	mockUC "identity/internal/mocks/usecase"
	"identity/internal/usecase"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSchema(t *testing.T) (graphql.Schema, *mockUC.MockUserUsecase) {
	userUC := mockUC.NewMockUserUsecase(t)

	schema, err := NewSchema(SchemaParams{
		UserUC: userUC,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	return schema, userUC
}

func execute(t *testing.T, schema graphql.Schema, query string, variables map[string]interface{}) *graphql.Result {
	t.Helper()

	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        context.Background(),
	})
}

func storedUser() *entity.User {
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

func TestSchema_UserByID_Found(t *testing.T) {
	schema, userUC := newTestSchema(t)

	userUC.EXPECT().
		FindUserByID(mock.Anything, int64(42)).
		Return(&usecase.UserOutput{User: storedUser()}, nil)

	result := execute(t, schema, `{ userById(id: 42) { id email fullName createdAt updatedAt } }`, nil)

	require.Empty(t, result.Errors)
	data := result.Data.(map[string]interface{})
	user := data["userById"].(map[string]interface{})
	assert.Equal(t, 42, user["id"])
	assert.Equal(t, "test@example.com", user["email"])
	assert.Equal(t, "Test User", user["fullName"])
	assert.Equal(t, "2025-06-01T12:00:00Z", user["createdAt"])
	assert.Equal(t, "2025-06-01T12:00:00Z", user["updatedAt"])
}

func TestSchema_UserByID_Absent(t *testing.T) {
	schema, userUC := newTestSchema(t)

	userUC.EXPECT().
		FindUserByID(mock.Anything, int64(9999)).
		Return(&usecase.UserOutput{User: nil}, nil)

	result := execute(t, schema, `{ userById(id: 9999) { id email } }`, nil)

	require.Empty(t, result.Errors)
	data := result.Data.(map[string]interface{})
	assert.Nil(t, data["userById"])
}

func TestSchema_UserByEmail_Found(t *testing.T) {
	schema, userUC := newTestSchema(t)

	userUC.EXPECT().
		FindUserByEmail(mock.Anything, "test@example.com").
		Return(&usecase.UserOutput{User: storedUser()}, nil)

	result := execute(t, schema,
		`query ($email: String!) { userByEmail(email: $email) { id email } }`,
		map[string]interface{}{"email": "test@example.com"})

	require.Empty(t, result.Errors)
	data := result.Data.(map[string]interface{})
	user := data["userByEmail"].(map[string]interface{})
	assert.Equal(t, 42, user["id"])
	assert.Equal(t, "test@example.com", user["email"])
}

func TestSchema_UserByEmail_Absent(t *testing.T) {
	schema, userUC := newTestSchema(t)

	userUC.EXPECT().
		FindUserByEmail(mock.Anything, "nobody@example.com").
		Return(&usecase.UserOutput{User: nil}, nil)

	result := execute(t, schema, `{ userByEmail(email: "nobody@example.com") { id } }`, nil)

	require.Empty(t, result.Errors)
	data := result.Data.(map[string]interface{})
	assert.Nil(t, data["userByEmail"])
}

func TestSchema_CreateUser_Success(t *testing.T) {
	schema, userUC := newTestSchema(t)

	userUC.EXPECT().
		CreateUser(mock.Anything, usecase.CreateUserInput{
			Email:    "new@example.com",
			FullName: "New User",
			Password: "Password123!",
		}).
		Return(&usecase.UserOutput{User: storedUser()}, nil)

	result := execute(t, schema,
		`mutation { createUser(email: "new@example.com", fullName: "New User", password: "Password123!") { id email } }`,
		nil)

	require.Empty(t, result.Errors)
	data := result.Data.(map[string]interface{})
	user := data["createUser"].(map[string]interface{})
	assert.Equal(t, 42, user["id"])
}

func TestSchema_CreateUser_DuplicateEmail(t *testing.T) {
	schema, userUC := newTestSchema(t)

	userUC.EXPECT().
		CreateUser(mock.Anything, mock.AnythingOfType("usecase.CreateUserInput")).
		Return(nil, domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists"))

	result := execute(t, schema,
		`mutation { createUser(email: "taken@example.com", fullName: "New User", password: "Password123!") { id } }`,
		nil)

	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "USER_ALREADY_EXISTS", result.Errors[0].Extensions["code"])
}

func TestSchema_CreateUser_ValidationError(t *testing.T) {
	schema, userUC := newTestSchema(t)

	userUC.EXPECT().
		CreateUser(mock.Anything, mock.AnythingOfType("usecase.CreateUserInput")).
		Return(nil, domainerrors.ErrValidationFailed.WrapMessage("email must be a valid email address"))

	result := execute(t, schema,
		`mutation { createUser(email: "not-an-email", fullName: "New User", password: "Password123!") { id } }`,
		nil)

	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "VALIDATION_FAILED", result.Errors[0].Extensions["code"])
}

func TestSchema_UpdateUser_FullNameOnly(t *testing.T) {
	schema, userUC := newTestSchema(t)
	newName := "Renamed User"

	updated := storedUser()
	updated.FullName = newName

	userUC.EXPECT().
		UpdateUser(mock.Anything, usecase.UpdateUserInput{ID: 42, FullName: &newName}).
		Return(&usecase.UserOutput{User: updated}, nil)

	result := execute(t, schema,
		`mutation { updateUser(id: 42, fullName: "Renamed User") { id fullName } }`,
		nil)

	require.Empty(t, result.Errors)
	data := result.Data.(map[string]interface{})
	user := data["updateUser"].(map[string]interface{})
	assert.Equal(t, newName, user["fullName"])
}

func TestSchema_UpdateUser_PasswordOnly(t *testing.T) {
	schema, userUC := newTestSchema(t)
	newPassword := "BrandNewPass1!"

	userUC.EXPECT().
		UpdateUser(mock.Anything, usecase.UpdateUserInput{ID: 42, Password: &newPassword}).
		Return(&usecase.UserOutput{User: storedUser()}, nil)

	result := execute(t, schema,
		`mutation ($password: String) { updateUser(id: 42, password: $password) { id } }`,
		map[string]interface{}{"password": newPassword})

	require.Empty(t, result.Errors)
}

func TestSchema_UpdateUser_NotFound(t *testing.T) {
	schema, userUC := newTestSchema(t)

	userUC.EXPECT().
		UpdateUser(mock.Anything, mock.AnythingOfType("usecase.UpdateUserInput")).
		Return(nil, domainerrors.ErrUserNotFound)

	result := execute(t, schema,
		`mutation { updateUser(id: 9999, fullName: "Renamed User") { id } }`,
		nil)

	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "USER_NOT_FOUND", result.Errors[0].Extensions["code"])
	assert.Equal(t, 404, result.Errors[0].Extensions["httpStatus"])
}

func TestSchema_InternalErrorIsMasked(t *testing.T) {
	schema, userUC := newTestSchema(t)

	userUC.EXPECT().
		FindUserByID(mock.Anything, int64(42)).
		Return(nil, errors.New("connection refused"))

	result := execute(t, schema, `{ userById(id: 42) { id } }`, nil)

	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "INTERNAL_ERROR", result.Errors[0].Extensions["code"])
	assert.NotContains(t, result.Errors[0].Message, "connection refused")
}

func TestSchema_PasswordHashNotSelectable(t *testing.T) {
	schema, _ := newTestSchema(t)

	result := execute(t, schema, `{ userById(id: 42) { id passwordHash } }`, nil)

	require.NotEmpty(t, result.Errors)
}

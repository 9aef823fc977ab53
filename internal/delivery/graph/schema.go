// Package graph builds the GraphQL schema and its resolvers on top of the
// use case layer.
package graph

import (
	"log/slog"
	"time"

	deliverycontext "identity/internal/delivery/context"
	"identity/internal/domain/entity"
	"identity/internal/usecase"

	"github.com/graphql-go/graphql"
	"go.uber.org/fx"
)

// userView is the API-facing shape of a user. The password hash deliberately
// has no field here, so it can never be selected.
type userView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserView(user *entity.User) *userView {
	if user == nil {
		return nil
	}

	return &userView{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt.UTC(),
		UpdatedAt: user.UpdatedAt.UTC(),
	}
}

// SchemaParams holds dependencies for the GraphQL schema, injected by Fx.
type SchemaParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// NewSchema assembles the executable GraphQL schema.
func NewSchema(params SchemaParams) (graphql.Schema, error) {
	r := &resolver{
		userUC: params.UserUC,
		logger: params.Logger,
	}

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "User",
		Description: "A registered user account.",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"fullName":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"userById": &graphql.Field{
				Type:        userType,
				Description: "Look up a user by primary key. Returns null when no user exists.",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.userByID,
			},
			"userByEmail": &graphql.Field{
				Type:        userType,
				Description: "Look up a user by email address. Returns null when no user exists.",
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.userByEmail,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type:        graphql.NewNonNull(userType),
				Description: "Register a new user with a unique email address.",
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"fullName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.createUser,
			},
			"updateUser": &graphql.Field{
				Type:        graphql.NewNonNull(userType),
				Description: "Update an existing user. Omitted fields keep their stored values; email is immutable.",
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"fullName": &graphql.ArgumentConfig{Type: graphql.String},
					"password": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.updateUser,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// resolver holds the dependencies shared by all field resolvers.
type resolver struct {
	userUC usecase.UserUsecase
	logger *slog.Logger
}

func (r *resolver) log(p graphql.ResolveParams) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(p.Context, r.logger)
}

func (r *resolver) userByID(p graphql.ResolveParams) (interface{}, error) {
	id, ok := p.Args["id"].(int)
	if !ok {
		return nil, wrapResolverError(nil)
	}

	output, err := r.userUC.FindUserByID(p.Context, int64(id))
	if err != nil {
		return nil, wrapResolverError(err)
	}
	if output.User == nil {
		return nil, nil
	}

	return toUserView(output.User), nil
}

func (r *resolver) userByEmail(p graphql.ResolveParams) (interface{}, error) {
	email, ok := p.Args["email"].(string)
	if !ok {
		return nil, wrapResolverError(nil)
	}

	output, err := r.userUC.FindUserByEmail(p.Context, email)
	if err != nil {
		return nil, wrapResolverError(err)
	}
	if output.User == nil {
		return nil, nil
	}

	return toUserView(output.User), nil
}

func (r *resolver) createUser(p graphql.ResolveParams) (interface{}, error) {
	input := usecase.CreateUserInput{
		Email:    stringArg(p, "email"),
		FullName: stringArg(p, "fullName"),
		Password: stringArg(p, "password"),
	}

	output, err := r.userUC.CreateUser(p.Context, input)
	if err != nil {
		r.log(p).Warn("createUser resolver failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, wrapResolverError(err)
	}

	return toUserView(output.User), nil
}

func (r *resolver) updateUser(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(int)
	input := usecase.UpdateUserInput{
		ID:       int64(id),
		FullName: optionalStringArg(p, "fullName"),
		Password: optionalStringArg(p, "password"),
	}

	output, err := r.userUC.UpdateUser(p.Context, input)
	if err != nil {
		r.log(p).Warn("updateUser resolver failed", slog.Int64("userID", input.ID), slog.Any("error", err))

		return nil, wrapResolverError(err)
	}

	return toUserView(output.User), nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	value, _ := p.Args[name].(string)

	return value
}

// optionalStringArg distinguishes an omitted argument from a provided one.
// An explicit null is treated the same as omission.
func optionalStringArg(p graphql.ResolveParams, name string) *string {
	raw, ok := p.Args[name]
	if !ok || raw == nil {
		return nil
	}

	value, ok := raw.(string)
	if !ok {
		return nil
	}

	return &value
}

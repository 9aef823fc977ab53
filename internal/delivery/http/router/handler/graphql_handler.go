// Package handler contains the echo handlers for the HTTP delivery.
package handler

import (
	"log/slog"
	"net/http"

	"identity/internal/delivery/http/response"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// GraphQLHandlerParams holds dependencies for GraphQLHandler, injected by Fx.
type GraphQLHandlerParams struct {
	fx.In

	Schema graphql.Schema
	Logger *slog.Logger
}

// GraphQLHandler executes GraphQL documents against the schema.
type GraphQLHandler struct {
	schema graphql.Schema
	logger *slog.Logger
}

// NewGraphQLHandler is the constructor for GraphQLHandler.
func NewGraphQLHandler(params GraphQLHandlerParams) *GraphQLHandler {
	return &GraphQLHandler{
		schema: params.Schema,
		logger: params.Logger,
	}
}

// graphqlRequest represents the standard GraphQL-over-HTTP request body.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Execute handles POST /graphql. Validation and execution errors travel in
// the GraphQL result's errors array with a 200 status; only a malformed
// request body produces a non-200 response.
func (h *GraphQLHandler) Execute(c echo.Context) error {
	var req graphqlRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid GraphQL request body")
	}
	if req.Query == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Query must not be empty")
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.Request().Context(),
	})

	return c.JSON(http.StatusOK, result)
}

// HealthCheck handles GET /health.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

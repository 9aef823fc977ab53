package graph

import (
	domainerrors "identity/internal/domain/errors"

	"github.com/pkg/errors"
)

// resolverError carries an AppError through graphql-go so that the business
// error code ends up in the GraphQL error extensions instead of being
// flattened into a bare message.
type resolverError struct {
	appErr domainerrors.AppError
}

// Error implements the error interface.
func (e *resolverError) Error() string {
	return e.appErr.Message()
}

// Extensions implements gqlerrors.ExtendedError, so graphql-go includes the
// map in the formatted error's "extensions" field.
func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code":       e.appErr.ErrorCode(),
		"httpStatus": e.appErr.HTTPCode(),
	}
	if details := e.appErr.Details(); details != "" {
		ext["details"] = details
	}

	return ext
}

// wrapResolverError converts any error returned by the use case layer into a
// resolverError. Errors that are not AppErrors are masked behind the generic
// internal error so internals never leak to API clients.
func wrapResolverError(err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return &resolverError{appErr: appErr}
	}

	return &resolverError{appErr: domainerrors.ErrInternalError}
}

package utils

import (
	"context"
	"errors"

	"motive-archive/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrUserIDNotFound     = errors.New("userID not found in context")
	ErrUserIDNotString    = errors.New("userID in context is not a string")
	ErrUserEmailNotFound  = errors.New("userEmail not found in context")
	ErrUserEmailNotString = errors.New("userEmail in context is not a string")
	ErrRolesNotFound      = errors.New("roles not found in context")
	ErrRolesWrongType     = errors.New("roles in context is not a string slice")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
	ErrCarIDNotFound      = errors.New("carID not found in context")
	ErrCarIDNotString     = errors.New("carID in context is not a string")
	ErrProjectIDNotFound  = errors.New("projectID not found in context")
	ErrProjectIDNotString = errors.New("projectID in context is not a string")
)

// GetUserIDFromContext retrieves the user ID from the context.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UserIDKey)
	if val == nil {
		return "", ErrUserIDNotFound
	}
	userID, ok := val.(string)
	if !ok {
		return "", ErrUserIDNotString
	}
	return userID, nil
}

// GetUserEmailFromContext retrieves the user email from the context.
func GetUserEmailFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UserEmailKey)
	if val == nil {
		return "", ErrUserEmailNotFound
	}
	userEmail, ok := val.(string)
	if !ok {
		return "", ErrUserEmailNotString
	}
	return userEmail, nil
}

// GetRolesFromContext retrieves the authenticated user's roles from the context.
func GetRolesFromContext(ctx context.Context) ([]string, error) {
	val := ctx.Value(contextkeys.RolesKey)
	if val == nil {
		return nil, ErrRolesNotFound
	}
	roles, ok := val.([]string)
	if !ok {
		return nil, ErrRolesWrongType
	}
	return roles, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// GetCarIDFromContext retrieves the car ID from the context.
func GetCarIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.CarIDKey)
	if val == nil {
		return "", ErrCarIDNotFound
	}
	carID, ok := val.(string)
	if !ok {
		return "", ErrCarIDNotString
	}
	return carID, nil
}

// GetProjectIDFromContext retrieves the project ID from the context.
func GetProjectIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.ProjectIDKey)
	if val == nil {
		return "", ErrProjectIDNotFound
	}
	projectID, ok := val.(string)
	if !ok {
		return "", ErrProjectIDNotString
	}
	return projectID, nil
}

// Context builder functions

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithUserEmail adds user email to context
func WithUserEmail(ctx context.Context, userEmail string) context.Context {
	return context.WithValue(ctx, contextkeys.UserEmailKey, userEmail)
}

// WithRoles adds roles to context
func WithRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, contextkeys.RolesKey, roles)
}

// WithAuthMethod records the authentication method in context
func WithAuthMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, contextkeys.AuthMethodKey, method)
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithCarID adds car ID to context
func WithCarID(ctx context.Context, carID string) context.Context {
	return context.WithValue(ctx, contextkeys.CarIDKey, carID)
}

// WithProjectID adds project ID to context
func WithProjectID(ctx context.Context, projectID string) context.Context {
	return context.WithValue(ctx, contextkeys.ProjectIDKey, projectID)
}

// WithComponent adds component name to context
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation adds operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// Optional getters that return default values instead of errors

// GetUserIDOrDefault retrieves the user ID from context or returns a default value
func GetUserIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetUserIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

// GetRequestIDOrDefault retrieves the request ID from context or returns a default value
func GetRequestIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetRequestIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

// HasUserID reports whether a user ID is present in the context.
func HasUserID(ctx context.Context) bool {
	_, err := GetUserIDFromContext(ctx)
	return err == nil
}

// HasRole reports whether the context's roles contain the given role.
func HasRole(ctx context.Context, role string) bool {
	roles, err := GetRolesFromContext(ctx)
	if err != nil {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

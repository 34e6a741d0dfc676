package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "motive-archive context key " + string(c)
}

// UserIDKey is the key for the authenticated user ID in context.Context
const UserIDKey = contextKey("userID")

// UserEmailKey is the key for the authenticated user email in context.Context
const UserEmailKey = contextKey("userEmail")

// RolesKey is the key for the authenticated user's roles in context.Context
const RolesKey = contextKey("roles")

// AuthMethodKey records how the request authenticated: "jwt", "firebase" or "api_token"
const AuthMethodKey = contextKey("authMethod")

// RequestIDKey is the key for the request ID in context.Context
const RequestIDKey = contextKey("requestID")

// CarIDKey is the key for the car ID a request operates on in context.Context
const CarIDKey = contextKey("carID")

// ProjectIDKey is the key for the project ID a request operates on in context.Context
const ProjectIDKey = contextKey("projectID")

// ComponentKey is the key for the originating component name in context.Context
const ComponentKey = contextKey("component")

// OperationKey is the key for the operation name in context.Context
const OperationKey = contextKey("operation")

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// APIToken is a long-lived opaque token for programmatic access.
// The token value is a 64 character hex string, well under the length
// of any Firebase ID token, which lets the auth middleware tell the two
// credential kinds apart.
type APIToken struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Token       string             `json:"token,omitempty" bson:"token"`
	UserID      string             `json:"userId" bson:"user_id"`
	UserEmail   string             `json:"userEmail" bson:"user_email"`
	Description string             `json:"description" bson:"description"`
	Scopes      []string           `json:"scopes" bson:"scopes"`
	ExpiresAt   time.Time          `json:"expiresAt" bson:"expires_at"`
	LastUsed    *time.Time         `json:"lastUsed,omitempty" bson:"last_used,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
}

// IsExpired reports whether the token is past its expiry
func (t *APIToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Redacted returns a copy safe to return from list endpoints,
// with the secret value masked
func (t *APIToken) Redacted() *APIToken {
	out := *t
	if len(out.Token) > 8 {
		out.Token = out.Token[:8] + "..."
	}
	return &out
}

// CreateTokenRequest is the payload for issuing an API token
type CreateTokenRequest struct {
	Description string   `json:"description"`
	Scopes      []string `json:"scopes"`
}

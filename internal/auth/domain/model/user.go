package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser   = "user"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// Creative roles assignable to archive contributors
const (
	CreativeRolePhotographer   = "photographer"
	CreativeRoleVideographer   = "videographer"
	CreativeRoleEditorInChief  = "editor_in_chief"
	CreativeRoleWriter         = "writer"
	CreativeRoleSocialMediaMgr = "social_media_manager"
)

// User statuses
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusInvited   = "invited"
)

// User represents a platform user. UID mirrors the Firebase user id when
// the account was provisioned through Firebase; accounts created directly
// get a generated UID.
type User struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UID           string             `json:"uid" bson:"uid"`
	Email         string             `json:"email" bson:"email"`
	Name          string             `json:"name" bson:"name"`
	PasswordHash  string             `json:"-" bson:"password_hash,omitempty"`
	Roles         []string           `json:"roles" bson:"roles"`
	CreativeRoles []string           `json:"creativeRoles" bson:"creative_roles"`
	Status        string             `json:"status" bson:"status"`
	ImageURL      string             `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	LastSignIn    *time.Time         `json:"lastSignIn,omitempty" bson:"last_sign_in,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updated_at"`
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user carries at least one of the given roles
func (u *User) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is an administrator
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// IsActive reports whether the account may authenticate
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// CreateUserRequest is the payload for provisioning a user
type CreateUserRequest struct {
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Password      string   `json:"password"`
	Roles         []string `json:"roles"`
	CreativeRoles []string `json:"creativeRoles"`
}

// UpdateUserRequest is the payload for updating a user's profile and roles
type UpdateUserRequest struct {
	Name          *string  `json:"name,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	CreativeRoles []string `json:"creativeRoles,omitempty"`
	Status        *string  `json:"status,omitempty"`
	ImageURL      *string  `json:"imageUrl,omitempty"`
}

// LoginRequest is the payload for password-based login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after a successful login or refresh
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	User         *User  `json:"user"`
}

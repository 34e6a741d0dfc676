package security

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"motive-archive/internal/auth/config"
	apperrors "motive-archive/internal/shared/errors"
)

// IDTokenVerifier verifies Firebase ID tokens
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*VerifiedToken, error)
}

// VerifiedToken carries the identity claims extracted from an ID token
type VerifiedToken struct {
	UID    string
	Email  string
	Claims map[string]interface{}
}

// FirebaseVerifier verifies tokens through the Firebase Admin SDK
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier initializes the Firebase Admin SDK from service
// account JSON provided via configuration. Private keys pasted into env
// files tend to arrive with escaped newlines, so those are fixed up
// before handing the credentials to the SDK.
func NewFirebaseVerifier(ctx context.Context, cfg *config.AuthConfig) (*FirebaseVerifier, error) {
	if cfg.FirebaseKeyData == "" {
		return nil, fmt.Errorf("firebase credentials not configured (KEY_DATA missing)")
	}

	var parsedKeyData map[string]interface{}
	if err := json.Unmarshal([]byte(cfg.FirebaseKeyData), &parsedKeyData); err != nil {
		return nil, fmt.Errorf("error unmarshalling key data: %w", err)
	}
	if pk, ok := parsedKeyData["private_key"].(string); ok {
		parsedKeyData["private_key"] = strings.ReplaceAll(pk, "\\n", "\n")
	}
	credJSON, err := json.Marshal(parsedKeyData)
	if err != nil {
		return nil, fmt.Errorf("error marshalling key data: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(credJSON))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

// VerifyIDToken checks the signature, expiry and audience of an ID token
func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*VerifiedToken, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	email := ""
	if e, ok := token.Claims["email"].(string); ok {
		email = e
	}

	return &VerifiedToken{
		UID:    token.UID,
		Email:  email,
		Claims: token.Claims,
	}, nil
}

var _ IDTokenVerifier = (*FirebaseVerifier)(nil)

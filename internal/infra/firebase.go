// README: Firebase Auth ID-token verification for clients and drivers.
package infra

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var ErrInvalidToken = errors.New("invalid id token")

// Identity is the verified caller. Role comes from the "role" custom claim
// ("client" or "driver").
type Identity struct {
	UID    string
	Role   string
	Claims map[string]interface{}
}

type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

type firebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier uses credentialsFile when set, otherwise application
// default credentials.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identityFromClaims(token.UID, token.Claims), nil
}

// StaticVerifier maps fixed tokens to identities; used for local runs
// without a Firebase project and in handler tests.
type StaticVerifier map[string]Identity

func (s StaticVerifier) VerifyIDToken(_ context.Context, idToken string) (*Identity, error) {
	id, ok := s[idToken]
	if !ok {
		return nil, ErrInvalidToken
	}
	return &id, nil
}

func identityFromClaims(uid string, claims map[string]interface{}) *Identity {
	id := &Identity{UID: uid, Claims: claims}
	if role, ok := claims["role"].(string); ok {
		id.Role = role
	}
	return id
}

package googleauth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

var ErrNotConfigured = errors.New("google client id is not configured")

// Identity is the subset of the Google ID-token payload the platform
// cares about.
type Identity struct {
	Email string
	Name  string
}

// Verifier validates Google-issued ID tokens. The interface exists so
// the auth service can be tested without Google's public keys.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// GoogleVerifier validates ID tokens against a fixed OAuth client id.
type GoogleVerifier struct {
	clientID string
}

// NewVerifier creates a verifier for the given OAuth client id.
func NewVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify checks signature, expiry, and audience, and extracts the
// account's email and display name.
func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if v.clientID == "" {
		return nil, ErrNotConfigured
	}

	payload, err := idtoken.Validate(ctx, rawToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("google token validation failed: %w", err)
	}

	identity := &Identity{}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.Name = name
	} else if given, ok := payload.Claims["given_name"].(string); ok {
		identity.Name = given
	}

	return identity, nil
}

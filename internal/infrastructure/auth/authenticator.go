package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/supplynet/backend/internal/domain/supplychain"
)

// Authenticator resolves an Authorization header into a caller context.
type Authenticator struct {
	verifier *TokenVerifier
	revoked  RevocationList
}

// NewAuthenticator combines token verification with a revocation list.
// revoked may be nil, in which case no token is considered revoked.
func NewAuthenticator(verifier *TokenVerifier, revoked RevocationList) *Authenticator {
	return &Authenticator{verifier: verifier, revoked: revoked}
}

// Authenticate returns supplychain.Anonymous for an empty header, so that
// the access gate rather than authentication decides the response. A header
// that is present but not a valid, unrevoked bearer token is an error.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (supplychain.CallerContext, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return supplychain.Anonymous, nil
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return supplychain.Anonymous, ErrInvalidToken
	}

	claims, err := a.verifier.Verify(strings.TrimSpace(token))
	if err != nil {
		return supplychain.Anonymous, err
	}

	if a.revoked != nil && claims.ID != "" {
		revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return supplychain.Anonymous, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return supplychain.Anonymous, ErrTokenRevoked
		}
	}
	return claims.Caller(), nil
}

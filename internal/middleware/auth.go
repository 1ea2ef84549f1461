package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
)

const (
	// SubjectKey holds the verified principal id in the gin context.
	SubjectKey = "auth_subject"
	rolesKey   = "auth_roles"
)

// Principal is the identity a verified token resolves to. The subject is an
// opaque stable customer key; roles gate the admin surface.
type Principal struct {
	Subject string
	Roles   []string
}

// TokenVerifier abstracts token verification so tests can substitute a stub.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}

// OIDCVerifier verifies bearer tokens against an OIDC provider.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}
	return &OIDCVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Principal, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	var claims struct {
		Roles []string `json:"roles"`
	}
	_ = token.Claims(&claims)
	return &Principal{Subject: token.Subject, Roles: claims.Roles}, nil
}

// Auth rejects requests without a valid bearer token and stores the
// principal for downstream handlers.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		principal, err := verifier.Verify(c.Request.Context(), strings.TrimPrefix(authHeader, prefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(SubjectKey, principal.Subject)
		c.Set(rolesKey, principal.Roles)
		c.Next()
	}
}

// RequireAdmin gates the back-office routes on the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, _ := c.Get(rolesKey)
		if list, ok := roles.([]string); !ok || !slices.Contains(list, "admin") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// Subject returns the verified principal id set by Auth.
func Subject(c *gin.Context) string {
	return c.GetString(SubjectKey)
}

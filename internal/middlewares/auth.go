package middlewares

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/pkg/logger"
	"github.com/opsalert/dispatch-console/pkg/response"
)

const principalKey = "principal"

// KeySource resolves asymmetric verification keys by kid.
type KeySource interface {
	Key(ctx context.Context, kid string) (any, error)
}

// Claims is the subset of a Supabase access token the console reads.
type Claims struct {
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	EntidadeID   string         `json:"entidade_id"`
	Regional     string         `json:"regional"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
	jwt.RegisteredClaims
}

// Principal maps the claims to the caller identity. The tenant is taken from
// the first non-empty of user_metadata.entidade_id, app_metadata.entidade_id,
// entidade_id and user_metadata.tenant_id.
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{
		ID:    c.Subject,
		Email: c.Email,
		Role: firstNonEmpty(
			stringClaim(c.UserMetadata, "role"),
			c.Role,
		),
		TenantID: firstNonEmpty(
			stringClaim(c.UserMetadata, "entidade_id"),
			stringClaim(c.AppMetadata, "entidade_id"),
			c.EntidadeID,
			stringClaim(c.UserMetadata, "tenant_id"),
		),
		Region: firstNonEmpty(
			stringClaim(c.UserMetadata, "regional"),
			c.Regional,
		),
	}
}

// JWTAuth verifies the bearer token. HS256 tokens are checked against
// hmacSecret; RS256/ES256 tokens against the key source.
func JWTAuth(hmacSecret string, keys KeySource) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "ES256", "HS256"}))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return response.Unauthorized(c, "Missing bearer token")
			}

			ctx := c.Request().Context()
			claims := &Claims{}

			_, err := parser.ParseWithClaims(strings.TrimSpace(token), claims, func(t *jwt.Token) (any, error) {
				switch t.Method.(type) {
				case *jwt.SigningMethodHMAC:
					if hmacSecret == "" {
						return nil, fmt.Errorf("HS256 tokens are not accepted: no shared secret configured")
					}
					return []byte(hmacSecret), nil
				default:
					if keys == nil {
						return nil, fmt.Errorf("no key source configured")
					}
					kid, _ := t.Header["kid"].(string)
					return keys.Key(ctx, kid)
				}
			})
			if err != nil {
				logger.Warnf("Rejected bearer token: %v", err)
				return response.Unauthorized(c, "Invalid or expired token")
			}

			if claims.Subject == "" {
				return response.Unauthorized(c, "Token has no subject")
			}

			c.Set(principalKey, claims.Principal())

			return next(c)
		}
	}
}

// PrincipalFrom returns the caller stored by JWTAuth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// SetPrincipal is used by handlers' tests to bypass token parsing.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

func stringClaim(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

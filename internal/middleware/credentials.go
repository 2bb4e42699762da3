package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tlmvpsc/questionbank/internal/models"
	"github.com/tlmvpsc/questionbank/pkg/response"
	"github.com/tlmvpsc/questionbank/pkg/utils"
)

// ContextUsername is the key for the authenticated admin's username in gin context.
const ContextUsername = "admin_username"

// CredentialSource looks up stored admin accounts for authentication.
type CredentialSource interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// Credentials returns a middleware that validates the "username:password"
// Authorization header against the stored bcrypt hash and sets the caller's
// username in context. Every failure mode yields the same generic 401.
func Credentials(source CredentialSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := SplitCredentials(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		admin, err := source.GetByUsername(c.Request.Context(), username)
		if err != nil || admin == nil {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		if !utils.CheckPassword(password, admin.PasswordHash) {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		c.Set(ContextUsername, admin.Username)
		c.Next()
	}
}

// SplitCredentials splits an Authorization header of the form
// "username:password" at the first colon. A missing header or a header
// without a colon fails the parse.
func SplitCredentials(header string) (username, password string, ok bool) {
	if header == "" {
		return "", "", false
	}
	return strings.Cut(header, ":")
}

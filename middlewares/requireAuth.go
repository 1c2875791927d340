package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
)

const identityKey = "identity"

// RequireAuth resolves the caller from the credential header, the standard
// Authorization header or the "token" cookie, in that order.
func RequireAuth(headerName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		credential := ctx.GetHeader(headerName)
		if credential == "" {
			credential = ctx.GetHeader("Authorization")
		}
		if credential == "" {
			credential, _ = ctx.Cookie("token")
		}

		id, err := identity.Resolve(credential)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": errs.Message(err)})
			return
		}

		ctx.Set(identityKey, id)
		ctx.Next()
	}
}

// CurrentIdentity returns the identity stored by RequireAuth.
func CurrentIdentity(ctx *gin.Context) (identity.Identity, bool) {
	v, exists := ctx.Get(identityKey)
	if !exists {
		return identity.Identity{}, false
	}
	id, ok := v.(identity.Identity)
	return id, ok
}

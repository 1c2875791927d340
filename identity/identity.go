package identity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/models"
)

const (
	msgMissingCredential = "user not authenticated"
	msgInvalidCredential = "invalid credential"
	msgMissingUserID     = "credential carries no user id"
)

// Identity is the acting user, resolved from a bearer credential and passed
// explicitly into every cart and order operation.
type Identity struct {
	UserID  models.ID
	IsAdmin bool
	Email   string
	Token   string
}

func (i Identity) Valid() bool {
	return !i.UserID.IsZero() && i.Token != ""
}

// Require returns an AuthenticationError unless the identity is usable.
func (i Identity) Require() error {
	if !i.Valid() {
		return errs.Authentication(msgMissingCredential)
	}
	return nil
}

// Resolve decodes the user id from a bearer credential. The signature is not
// checked here; the backend verifies it on every request.
func Resolve(credential string) (Identity, error) {
	token := strings.TrimSpace(credential)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return Identity{}, errs.Authentication(msgMissingCredential)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, errs.Authentication(msgInvalidCredential)
	}

	userID, err := claimID(claims["id"])
	if err != nil {
		return Identity{}, err
	}

	isAdmin, _ := claims["isAdmin"].(bool)
	email, _ := claims["email"].(string)

	return Identity{
		UserID:  userID,
		IsAdmin: isAdmin,
		Email:   email,
		Token:   token,
	}, nil
}

func claimID(v any) (models.ID, error) {
	switch id := v.(type) {
	case string:
		if strings.TrimSpace(id) == "" {
			return "", errs.Authentication(msgMissingUserID)
		}
		return models.ID(id), nil
	case float64:
		if id != float64(int64(id)) {
			return "", errs.Authentication(fmt.Sprintf("unexpected user id %v", id))
		}
		return models.ID(strconv.FormatInt(int64(id), 10)), nil
	case nil:
		return "", errs.Authentication(msgMissingUserID)
	default:
		return "", errs.Authentication(fmt.Sprintf("unexpected user id type %T", v))
	}
}

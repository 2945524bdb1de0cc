package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/web"
	"golang.org/x/crypto/bcrypt"
)

const (
	UserCtxKey web.ContextKey = "user_data"

	passwordCost = 12
)

var ErrNotAuthenticated = xerrors.Message("Request carries no authenticated user")

// Auth issues and verifies HS256 tokens naming a username.
type Auth struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func New(secret string, tokenTTL time.Duration) *Auth {
	return &Auth{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (user *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordCost)
	if err != nil {
		return xerrors.New(err)
	}
	user.Password = hash
	return nil
}

func (user *User) IsPasswordMatch(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(user.Password, []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, xerrors.New(err)
	}
}

func (auth *Auth) claimsFor(user *User) UserClaim {
	issued := auth.now()
	return UserClaim{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(auth.tokenTTL)),
		},
	}
}

func (auth *Auth) GenerateToken(user *User) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.claimsFor(user)).SignedString(auth.secret)
	if err != nil {
		return "", xerrors.New(err)
	}
	return signed, nil
}

// Authenticate verifies the signature and expiry of token and returns its claims.
func (auth *Auth) Authenticate(token string) (*UserClaim, error) {
	claim := &UserClaim{}
	parsed, err := jwt.ParseWithClaims(token, claim, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.Newf("unexpected signing method %v", t.Header["alg"])
		}
		return auth.secret, nil
	})
	if err != nil {
		return nil, xerrors.New(err)
	}
	if !parsed.Valid {
		return nil, xerrors.New("invalid token")
	}
	return claim, nil
}

func (auth *Auth) GetAuthenticatedUser(r *http.Request) (*User, error) {
	if user, ok := web.GetValueFromContext[*User](r, UserCtxKey); ok {
		return user, nil
	}
	return nil, ErrNotAuthenticated
}

func (auth *Auth) SetAuthenticatedUser(r *http.Request, user *User) *http.Request {
	return web.AddValueToContext(r, UserCtxKey, user)
}

func (auth *Auth) IsUserAuthenticated(r *http.Request) bool {
	_, err := auth.GetAuthenticatedUser(r)
	return err == nil
}

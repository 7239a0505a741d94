package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/verlynk/verlynk-backend/errs"
)

// CookieName is the cookie the signed token travels in.
const CookieName = "verlynk_token"

// Claims identifies an authenticated user. Downstream code trusts this
// identity without re-verification once the middleware has parsed it.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenMaker signs and verifies the session tokens.
type TokenMaker struct {
	secret []byte
	expiry time.Duration
}

func NewTokenMaker(secret string, expiry time.Duration) TokenMaker {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return TokenMaker{secret: []byte(secret), expiry: expiry}
}

func (m TokenMaker) Expiry() time.Duration {
	return m.expiry
}

// Issue returns a signed token for the given user identity.
func (m TokenMaker) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the token and returns its claims. Driver errors are
// translated to the API taxonomy here so they never reach the boundary raw.
func (m TokenMaker) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errs.NewMissingTokenError()
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" || claims.Email == "" {
		return nil, errs.NewInvalidTokenError()
	}

	return claims, nil
}

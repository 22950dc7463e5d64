// Package auth is the boundary to session management, which lives outside
// this service. Handlers and the websocket upgrade depend only on the
// Authenticator interface; the JWT implementation below is what deployments
// plug in when the session layer issues HS256 tokens.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campusfeed/campusfeed/internal/domain"
)

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID uint
}

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(token string) (*Identity, error)
}

// JWT validates HS256 tokens whose subject is the numeric user id.
type JWT struct {
	secret []byte
}

func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret)}
}

func (j *JWT) Authenticate(token string) (*Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.Unauthorizedf("invalid token")
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, domain.Unauthorizedf("invalid token")
	}
	userID, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return nil, domain.Unauthorizedf("invalid token")
	}
	return &Identity{UserID: uint(userID)}, nil
}

// IssueToken signs a token for the given user. The session layer normally
// does this; kept here for development and tests.
func (j *JWT) IssueToken(userID uint, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

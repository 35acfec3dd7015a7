package auth

import (
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

const tokenDuration = 24 * time.Hour

type claims struct {
	jwt.RegisteredClaims
	Actor string `json:"actor"`
}

// AuthToken mints and verifies signed bearer tokens carrying the acting
// party (consumer, merchant or delivery agent).
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken instance with signing key
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

// CreateToken issues a signed token for the given user and actor role
func (at *AuthToken) CreateToken(userID string, actor models.Actor) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		},
		Actor: string(actor),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(at.key)
}

// VerifyToken checks signature and expiry and returns the token payload
func (at *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	var c claims

	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.ErrAuthExpired
		}
		return at.key, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrAuthExpired
	}

	return &models.TokenPayload{
		UserID: c.Subject,
		Actor:  models.Actor(c.Actor),
	}, nil
}

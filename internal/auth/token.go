package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/acervo/bookshelf/internal/models"
)

// TokenTTL is how long an issued token stays valid. Tokens are stateless and
// cannot be revoked before expiry.
const TokenTTL = time.Hour

// ErrInvalidToken covers every verification failure: malformed, bad
// signature, or expired. Callers must not distinguish between them.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified subject of a request, used downstream for
// attribution.
type Identity struct {
	UserID   string
	Username string
}

// Claims embeds the registered claims plus the subject's username.
type Claims struct {
	Username string `json:"un"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens. The signing key is
// process-wide configuration loaded once at startup.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string) *TokenService {
	return NewTokenServiceWithTTL(secret, TokenTTL)
}

// NewTokenServiceWithTTL overrides the token lifetime. Used by tests to mint
// already-expired tokens.
func NewTokenServiceWithTTL(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue mints an HS256 token carrying the user's id and username.
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature and expiry and returns the embedded identity.
// Every failure mode collapses to ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.Subject, Username: claims.Username}, nil
}

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mobileshop/backend/internal/infrastructure/config"
)

var (
	ErrInvalidToken     = errors.New("invalid session token")
	ErrExpiredToken     = errors.New("session token has expired")
	ErrInvalidClaims    = errors.New("invalid session claims")
	ErrMissingShopToken = errors.New("missing shop token in claims")
)

// Claims is the session token payload. The shop token is the upstream
// storefront credential the session wraps; the device id keys the local cart
// cache for the same client across sessions.
type Claims struct {
	jwt.RegisteredClaims
	ShopToken string `json:"shop_token"`
	DeviceID  string `json:"device_id,omitempty"`
}

// SessionToken is an issued session token with its expiry
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	TokenType string    `json:"tokenType"` // Bearer
}

// SessionService issues and validates session tokens
type SessionService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSessionService creates a session service from config
func NewSessionService(cfg config.SessionConfig) *SessionService {
	return &SessionService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
	}
}

// Issue signs a session token wrapping the given shop token
func (s *SessionService) Issue(shopToken, deviceID string) (*SessionToken, error) {
	if shopToken == "" {
		return nil, ErrMissingShopToken
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		ShopToken: shopToken,
		DeviceID:  deviceID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &SessionToken{
		Token:     signed,
		ExpiresAt: expiresAt,
		TokenType: "Bearer",
	}, nil
}

// Validate parses and verifies a session token
func (s *SessionService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.ShopToken == "" {
		return nil, ErrMissingShopToken
	}

	return claims, nil
}

// TTL returns the configured session lifetime
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

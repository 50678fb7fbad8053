package jwtauth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/padel-league/internal/domain/user"
	"github.com/riskibarqy/padel-league/internal/usecase"
)

const defaultLeeway = 30 * time.Second

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Claims is the token payload issued by the auth service. UserID falls back to sub.
type Claims struct {
	UserID any    `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 access tokens locally, without a round trip to the identity service.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
	parser   *jwt.Parser
}

func NewVerifier(cfg Config) (*Verifier, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, crerr.New("jwt secret is required")
	}
	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(leeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Verifier{
		secret:   []byte(secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		parser:   jwt.NewParser(opts...),
	}, nil
}

func (v *Verifier) VerifyAccessToken(_ context.Context, tokenString string) (user.Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %s", usecase.ErrUnauthorized, err.Error())
	}
	if !token.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid token", usecase.ErrUnauthorized)
	}

	id, err := claims.resolveUserID()
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %s", usecase.ErrUnauthorized, err.Error())
	}

	return user.Principal{UserID: id, Email: claims.Email}, nil
}

func (c *Claims) resolveUserID() (int64, error) {
	var raw string
	switch v := c.UserID.(type) {
	case float64:
		raw = strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		raw = v
	case nil:
		raw = c.Subject
	default:
		return 0, fmt.Errorf("unsupported user_id claim type %T", v)
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("token has no valid user id")
	}
	return id, nil
}

// Sign issues a token for the given principal. Used by tests and local tooling.
func (v *Verifier) Sign(principal user.Principal, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		UserID: principal.UserID,
		Email:  principal.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principal.UserID, 10),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", crerr.Wrap(err, "sign token")
	}
	return signed, nil
}

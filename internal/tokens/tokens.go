package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Fingerprint string `json:"fingerprint,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies claim sets with a single server-wide
// symmetric secret. It is safe for concurrent use.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

func NewCodec(secret []byte, algorithm string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokens: empty signing secret")
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("tokens: unsupported signing algorithm %q", algorithm)
	}

	return &Codec{secret: secret, method: method}, nil
}

func (c *Codec) Encode(sub, fingerprint string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// DecodeStrict verifies the signature and the expiry.
func (c *Codec) DecodeStrict(tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, c.keyfunc)
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// DecodeExpired verifies the signature only, accepting expired tokens.
// Used to pair an expired access token with a live refresh token during
// rotation. Never use the result for authorization.
func (c *Codec) DecodeExpired(tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, c.keyfunc, jwt.WithoutClaimsValidation())
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (c *Codec) keyfunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != c.method.Alg() {
		return nil, fmt.Errorf("unexpected sign method: %v", t.Header["alg"])
	}
	return c.secret, nil
}

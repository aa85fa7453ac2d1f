// Package token issues and validates the signed bearer tokens handed out by
// the credential service. Tokens are compact HS256 JWTs carrying the subject
// user ID, a kind discriminator (access vs refresh), issue/expiry timestamps,
// and a unique token ID. Verification is stateless: the signature alone
// proves authenticity, no server-side lookup is involved.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spolyakov/passport/internal/common"
)

// Kind discriminates access tokens from refresh tokens. A token is issued
// with exactly one kind and never validates as the other.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the payload signed into every token.
type Claims struct {
	Kind Kind `json:"kind"`
	jwt.RegisteredClaims
}

// Options configures a Codec. The secret is the process-wide HMAC signing
// key; Leeway optionally tolerates clock skew during expiry checks
// (default 0, strict).
type Options struct {
	Secret []byte
	Leeway time.Duration
}

// Codec signs and verifies tokens. It is immutable after construction and
// safe for concurrent use; key rotation means constructing a new Codec.
type Codec struct {
	opts Options
}

func NewCodec(opts Options) (*Codec, error) {
	if len(opts.Secret) == 0 {
		return nil, fmt.Errorf("empty signing secret: %w", common.ErrorInvalidInput)
	}
	if opts.Leeway < 0 {
		return nil, fmt.Errorf("negative leeway: %w", common.ErrorInvalidInput)
	}
	return &Codec{opts: opts}, nil
}

// Issue builds and signs a token of the given kind for subjectID, valid for
// ttl from now. A negative ttl produces an already-expired token, which is
// useful in tests but never done by the service.
func (c *Codec) Issue(subjectID string, kind Kind, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("empty subject: %w", common.ErrorInvalidInput)
	}
	if kind != KindAccess && kind != KindRefresh {
		return "", fmt.Errorf("unknown token kind %q: %w", kind, common.ErrorInvalidInput)
	}

	now := time.Now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.opts.Secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature, then expiry, then the kind discriminator,
// in that order: claims are not trusted before the signature checks out.
// Failures map to common.ErrInvalidSignature, common.ErrTokenExpired, and
// common.ErrWrongTokenType respectively; malformed input and unexpected
// signing algorithms count as forgery.
func (c *Codec) Validate(tokenString string, expectedKind Kind) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.opts.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(c.opts.Leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		default:
			return nil, common.ErrInvalidSignature
		}
	}

	if claims.Subject == "" {
		return nil, common.ErrInvalidSignature
	}
	if claims.Kind != expectedKind {
		return nil, common.ErrWrongTokenType
	}

	return claims, nil
}

package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lalarentals/users-micro/internal/model"
)

// Verification outcomes.  Every one of them means "unauthenticated" to a
// caller; they are kept apart so the middleware can say why.
var (
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrTokenMissingClaims = errors.New("token is missing identity claims")
	ErrTokenExpired       = errors.New("token has expired")
)

// Configuration errors.  Issuer and Verifier refuse to exist without a
// usable key.
var (
	ErrSecretMissing        = errors.New("signing secret is not configured")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// Claim names embedded in every token.
const (
	claimEmail = "email"
	claimID    = "id"
	claimRole  = "role"
	claimExp   = "exp"
)

// SigningKey is the process-wide symmetric secret and algorithm tag.  It is
// loaded once at startup and handed to both Issuer and Verifier.
type SigningKey struct {
	Secret    string
	Algorithm string // HS256, HS384 or HS512
}

func (k SigningKey) method() (*jwt.SigningMethodHMAC, error) {
	if k.Secret == "" {
		return nil, ErrSecretMissing
	}
	alg := strings.ToUpper(strings.TrimSpace(k.Algorithm))
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	m, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, k.Algorithm)
	}
	return m, nil
}

// Option customises an Issuer or Verifier.
type Option func(*clock)

type clock struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *clock) { c.now = now }
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// AccessToken is a signed token and the instant it stops being accepted.
type AccessToken struct {
	Token   string
	Expires time.Time
}

// Issuer signs identity tokens.  It performs no credential checks; the
// caller must have authenticated the user already.
type Issuer struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	clock  clock
}

// NewIssuer returns an Issuer for key.
func NewIssuer(key SigningKey, opts ...Option) (*Issuer, error) {
	m, err := key.method()
	if err != nil {
		return nil, err
	}
	return &Issuer{secret: []byte(key.Secret), method: m, clock: newClock(opts)}, nil
}

// Issue builds the claim set {email, id, role, exp = now + ttl} and signs
// it.  Output is deterministic for identical input and clock reading.
func (i *Issuer) Issue(email string, userID uint64, role model.Role, ttl time.Duration) (AccessToken, error) {
	exp := i.clock.now().UTC().Add(ttl).Truncate(time.Second)
	claims := jwt.MapClaims{
		claimEmail: email,
		claimID:    userID,
		claimRole:  string(role),
		claimExp:   exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Expires: exp}, nil
}

// Verifier validates tokens produced by an Issuer sharing the same key.
// It is the single place where a bearer string becomes an Identity.
type Verifier struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	clock  clock
}

// NewVerifier returns a Verifier for key.
func NewVerifier(key SigningKey, opts ...Option) (*Verifier, error) {
	m, err := key.method()
	if err != nil {
		return nil, err
	}
	return &Verifier{secret: []byte(key.Secret), method: m, clock: newClock(opts)}, nil
}

// Verify checks expiry, signature and claims of raw and returns the
// embedded Identity.  The error is one of ErrTokenExpired, ErrTokenInvalid
// or ErrTokenMissingClaims.
func (v *Verifier) Verify(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, ErrTokenInvalid
	}

	// An elapsed token is reported as expired whatever its signature.  A
	// token without exp goes on to the signature check, so only a correctly
	// signed one can come back as missing claims.
	unverified := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, unverified); err != nil {
		return Identity{}, ErrTokenInvalid
	}
	exp, err := unverified.GetExpirationTime()
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}
	if exp != nil && !v.clock.now().Before(exp.Time) {
		return Identity{}, ErrTokenExpired
	}

	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithTimeFunc(v.clock.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return Identity{}, ErrTokenMissingClaims
		}
		return Identity{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Identity{}, ErrTokenInvalid
	}
	return identityFromClaims(claims)
}

func identityFromClaims(claims jwt.MapClaims) (Identity, error) {
	email, _ := claims[claimEmail].(string)
	roleRaw, _ := claims[claimRole].(string)
	idRaw, hasID := claims[claimID]
	if email == "" || roleRaw == "" || !hasID || idRaw == nil {
		return Identity{}, ErrTokenMissingClaims
	}
	uid, ok := userIDFromClaim(idRaw)
	if !ok {
		return Identity{}, ErrTokenInvalid
	}
	role, ok := model.ParseRole(roleRaw)
	if !ok {
		return Identity{}, ErrTokenInvalid
	}
	return Identity{Email: email, UserID: uid, Role: role}, nil
}

// userIDFromClaim accepts the id claim as a JSON number or a numeric
// string; some clients re-encode numeric claims as strings.
func userIDFromClaim(v interface{}) (uint64, bool) {
	switch t := v.(type) {
	case float64:
		if t < 1 || t != float64(uint64(t)) {
			return 0, false
		}
		return uint64(t), true
	case string:
		n, err := strconv.ParseUint(t, 10, 64)
		if err != nil || n == 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

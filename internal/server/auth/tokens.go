// Package auth contains the credential primitives of the account service:
// the signed token codec, password hashers and the request principal.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/cryptox"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenPrecision is the resolution of iat and exp. jwt/v5 truncates
// NumericDate values to jwt.TimePrecision, which defaults to whole seconds.
const tokenPrecision = time.Millisecond

func init() {
	jwt.TimePrecision = tokenPrecision
}

// Kind names one family of tokens. Each kind is signed with its own secret.
type Kind string

const (
	KindActivation Kind = "activation"
	KindAccess     Kind = "access"
	KindRefresh    Kind = "refresh"
)

// KeyConfig is the per-kind signing configuration.
type KeyConfig struct {
	Secret []byte
	TTL    time.Duration
	// Seal encrypts the payload so that token holders cannot read it.
	Seal bool
}

// TokenInfo describes a verified token.
type TokenInfo struct {
	ID        string
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claims struct {
	jwt.RegisteredClaims
	Kind    Kind            `json:"knd"`
	Payload json.RawMessage `json:"pld,omitempty"`
	Sealed  string          `json:"enc,omitempty"`
}

type kindKeys struct {
	KeyConfig
	sealKey []byte
}

// TokenCodec issues and verifies HS256 tokens for a fixed set of kinds.
// It is safe for concurrent use; its configuration is immutable.
type TokenCodec struct {
	keys   map[Kind]kindKeys
	issuer string
	now    func() time.Time
}

type Option func(*TokenCodec)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCodec) { c.now = now }
}

func WithIssuer(issuer string) Option {
	return func(c *TokenCodec) { c.issuer = issuer }
}

// NewTokenCodec validates keys and builds a codec. Every kind needs a
// non-empty secret and a non-negative TTL.
func NewTokenCodec(keys map[Kind]KeyConfig, opts ...Option) (*TokenCodec, error) {
	c := &TokenCodec{keys: make(map[Kind]kindKeys, len(keys)), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	for kind, cfg := range keys {
		if len(cfg.Secret) == 0 {
			return nil, fmt.Errorf("token kind %q: empty secret", kind)
		}
		if cfg.TTL < 0 {
			return nil, fmt.Errorf("token kind %q: negative ttl", kind)
		}
		k := kindKeys{KeyConfig: cfg}
		if cfg.Seal {
			key, err := cryptox.DeriveKey(cfg.Secret, "accounts/token-payload/"+string(kind))
			if err != nil {
				return nil, fmt.Errorf("token kind %q: %w", kind, err)
			}
			k.sealKey = key
		}
		c.keys[kind] = k
	}

	return c, nil
}

// TTL returns the configured lifetime of kind.
func (c *TokenCodec) TTL(kind Kind) time.Duration {
	return c.keys[kind].TTL
}

// Issue signs payload as a token of the given kind that expires after the
// kind's TTL.
func (c *TokenCodec) Issue(kind Kind, payload any) (string, error) {
	k, ok := c.keys[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	// Issue at a representable instant so that exp is exactly now+TTL.
	now := c.now().Truncate(tokenPrecision)
	cl := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{string(kind)},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(k.TTL)),
		},
		Kind: kind,
	}

	if payload != nil {
		if k.sealKey != nil {
			sealed, err := cryptox.SealJSON(payload, k.sealKey)
			if err != nil {
				return "", fmt.Errorf("seal payload: %w", err)
			}
			cl.Sealed = base64.RawURLEncoding.EncodeToString(sealed)
		} else {
			raw, err := json.Marshal(payload)
			if err != nil {
				return "", fmt.Errorf("encode payload: %w", err)
			}
			cl.Payload = raw
		}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(k.Secret)
}

// Verify checks signature, kind and expiry of token, in that order, and
// decodes its payload into out (which may be nil). It fails with
// common.ErrTokenExpired for well-formed expired tokens and with
// common.ErrTokenInvalid for everything else.
func (c *TokenCodec) Verify(token string, kind Kind, out any) (*TokenInfo, error) {
	k, ok := c.keys[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", common.ErrTokenInvalid, kind)
	}

	cl := &claims{}
	parsed, err := jwt.ParseWithClaims(token, cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return k.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(string(kind)),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrTokenInvalid, err)
	}
	if !parsed.Valid || cl.Kind != kind {
		return nil, common.ErrTokenInvalid
	}

	if out != nil {
		if err := c.decodePayload(k, cl, out); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrTokenInvalid, err)
		}
	}

	info := &TokenInfo{ID: cl.ID, Kind: cl.Kind, ExpiresAt: cl.ExpiresAt.Time}
	if cl.IssuedAt != nil {
		info.IssuedAt = cl.IssuedAt.Time
	}
	return info, nil
}

func (c *TokenCodec) decodePayload(k kindKeys, cl *claims, out any) error {
	if k.sealKey != nil {
		sealed, err := base64.RawURLEncoding.DecodeString(cl.Sealed)
		if err != nil {
			return err
		}
		return cryptox.OpenJSON(sealed, k.sealKey, out)
	}
	if len(cl.Payload) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(cl.Payload, out)
}

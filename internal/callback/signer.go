package callback

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "nexus-gateway"

var ErrInvalidSignature = errors.New("invalid callback signature")

// Claims подпись callback: токен привязан к UETR и хэшу тела
type Claims struct {
	UETR       string `json:"uetr"`
	BodySHA256 string `json:"body_sha256"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

func BodyDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Sign HS256 токен для заголовка Authorization
func (s *Signer) Sign(uetr string, body []byte, now time.Time) (string, error) {
	claims := Claims{
		UETR:       uetr,
		BodySHA256: BodyDigest(body),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   uetr,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("callback.Sign: %w", err)
	}
	return token, nil
}

// Verify проверка на стороне получателя callback
func (s *Signer) Verify(token string, body []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSignature
	}
	if claims.BodySHA256 != BodyDigest(body) {
		return nil, ErrInvalidSignature
	}
	return claims, nil
}

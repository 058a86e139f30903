package utils

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKeys verifies session tokens issued by the identity provider: RS256
// with the instance public key, or HS256 with a shared secret.
type TokenKeys struct {
	publicKey *rsa.PublicKey
	secret    []byte
}

func NewTokenKeys(publicKeyPEM, secret string) (*TokenKeys, error) {
	keys := &TokenKeys{}
	if publicKeyPEM != "" {
		// env files often carry the PEM on one line with literal \n
		pem := strings.ReplaceAll(publicKeyPEM, `\n`, "\n")
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, fmt.Errorf("invalid token public key: %w", err)
		}
		keys.publicKey = key
	}
	if secret != "" {
		keys.secret = []byte(secret)
	}
	if keys.publicKey == nil && keys.secret == nil {
		return nil, errors.New("no token verification key configured")
	}
	return keys, nil
}

func (k *TokenKeys) methods() []string {
	var methods []string
	if k.publicKey != nil {
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	}
	if k.secret != nil {
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	}
	return methods
}

func (k *TokenKeys) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodRSA:
		if k.publicKey != nil {
			return k.publicKey, nil
		}
	case *jwt.SigningMethodHMAC:
		if k.secret != nil {
			return k.secret, nil
		}
	}
	return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
}

// ParseSessionToken verifies the signature and expiry and returns the claims.
func ParseSessionToken(tokenString string, keys *TokenKeys) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token is empty")
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, keys.keyFunc,
		jwt.WithValidMethods(keys.methods()),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("error parsing token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// BearerToken strips the scheme from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

var emailClaims = []string{"email", "primary_email_address", "email_address", "primaryEmail"}

// EmailFromClaims returns the first non-empty email claim, checking the
// primary claim before the secondary ones.
func EmailFromClaims(claims jwt.MapClaims) string {
	for _, name := range emailClaims {
		if v, ok := claims[name].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// GenerateSessionToken signs an HS256 token. It is used by the CLI and the
// tests to mint development tokens.
func GenerateSessionToken(secret []byte, subject, email string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

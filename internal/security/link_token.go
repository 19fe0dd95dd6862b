package security

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSigningKeyRequired = errors.New("link signing key is required")
	ErrInvalidLinkToken   = errors.New("invalid link token")
)

const defaultLinkTTL = 72 * time.Hour

// LinkSigner mints the short-lived tokens embedded in getting-started deep
// links, so the app can trust who is landing on the onboarding page.
type LinkSigner struct {
	secretKey []byte
	ttl       time.Duration
	baseURL   string
	now       func() time.Time
}

func NewLinkSigner(secretKey string, ttl time.Duration, baseURL string) (*LinkSigner, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, ErrSigningKeyRequired
	}
	if ttl <= 0 {
		ttl = defaultLinkTTL
	}
	return &LinkSigner{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
	}, nil
}

func (signer *LinkSigner) GettingStartedLink(userID string) (string, error) {
	token, err := signer.signToken(userID)
	if err != nil {
		return "", fmt.Errorf("sign link token: %w", err)
	}
	return fmt.Sprintf("%s/onboarding/%s?token=%s", signer.baseURL, url.PathEscape(userID), url.QueryEscape(token)), nil
}

func (signer *LinkSigner) signToken(userID string) (string, error) {
	now := signer.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(signer.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signer.secretKey)
}

// VerifyLinkToken returns the user id a valid token was minted for.
func (signer *LinkSigner) VerifyLinkToken(rawToken string) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(rawToken, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return signer.secretKey, nil
	}, jwt.WithTimeFunc(signer.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidLinkToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidLinkToken
	}
	return claims.Subject, nil
}

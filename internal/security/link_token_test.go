package security

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestSigner(t *testing.T) *LinkSigner {
	t.Helper()

	signer, err := NewLinkSigner("0123456789abcdef0123456789abcdef", time.Hour, "https://app.teamsync.example.com")
	if err != nil {
		t.Fatalf("NewLinkSigner(): %v", err)
	}
	return signer
}

func TestNewLinkSignerRejectsEmptyKey(t *testing.T) {
	if _, err := NewLinkSigner("   ", time.Hour, "https://app.example.com"); !errors.Is(err, ErrSigningKeyRequired) {
		t.Fatalf("expected ErrSigningKeyRequired, got %v", err)
	}
}

func TestGettingStartedLinkRoundTrip(t *testing.T) {
	signer := newTestSigner(t)

	link, err := signer.GettingStartedLink("user-1")
	if err != nil {
		t.Fatalf("GettingStartedLink(): %v", err)
	}
	if !strings.HasPrefix(link, "https://app.teamsync.example.com/onboarding/user-1?token=") {
		t.Fatalf("unexpected link shape: %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	userID, err := signer.VerifyLinkToken(parsed.Query().Get("token"))
	if err != nil {
		t.Fatalf("VerifyLinkToken(): %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestVerifyLinkTokenRejectsExpired(t *testing.T) {
	signer := newTestSigner(t)
	signer.ttl = time.Minute

	issued := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issued }
	token, err := signer.signToken("user-1")
	if err != nil {
		t.Fatalf("signToken(): %v", err)
	}

	signer.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := signer.VerifyLinkToken(token); !errors.Is(err, ErrInvalidLinkToken) {
		t.Fatalf("expected ErrInvalidLinkToken for expired token, got %v", err)
	}
}

func TestVerifyLinkTokenRejectsWrongKey(t *testing.T) {
	signer := newTestSigner(t)
	other, err := NewLinkSigner("ffffffffffffffffffffffffffffffff", time.Hour, "https://app.teamsync.example.com")
	if err != nil {
		t.Fatalf("NewLinkSigner(): %v", err)
	}

	token, err := signer.signToken("user-1")
	if err != nil {
		t.Fatalf("signToken(): %v", err)
	}
	if _, err := other.VerifyLinkToken(token); !errors.Is(err, ErrInvalidLinkToken) {
		t.Fatalf("expected ErrInvalidLinkToken for foreign key, got %v", err)
	}
}

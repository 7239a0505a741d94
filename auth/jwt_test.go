package auth

import (
	"testing"
	"time"

	"github.com/verlynk/verlynk-backend/errs"
)

const testUserID = "64f1c0ffee0ddba11ad00000"

func TestIssueAndParseRoundTrip(t *testing.T) {
	t.Parallel()
	maker := NewTokenMaker("test-secret", time.Hour)

	token, err := maker.Issue(testUserID, "ada@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := maker.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != testUserID {
		t.Errorf("user id = %q", claims.UserID)
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestParseEmptyToken(t *testing.T) {
	t.Parallel()
	maker := NewTokenMaker("test-secret", time.Hour)

	_, err := maker.Parse("")
	if !errs.IsMissingToken(err) {
		t.Fatalf("expected missing-token error, got %v", err)
	}
}

func TestParseExpiredToken(t *testing.T) {
	t.Parallel()
	maker := TokenMaker{secret: []byte("test-secret"), expiry: -time.Minute}

	token, err := maker.Issue(testUserID, "ada@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = maker.Parse(token)
	if !errs.IsExpiredToken(err) {
		t.Fatalf("expected expired-token error, got %v", err)
	}
}

func TestParseForeignSignature(t *testing.T) {
	t.Parallel()
	signer := NewTokenMaker("one-secret", time.Hour)
	verifier := NewTokenMaker("another-secret", time.Hour)

	token, err := signer.Issue(testUserID, "ada@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = verifier.Parse(token)
	if !errs.IsInvalidToken(err) {
		t.Fatalf("expected invalid-token error, got %v", err)
	}
}

func TestParseGarbageToken(t *testing.T) {
	t.Parallel()
	maker := NewTokenMaker("test-secret", time.Hour)

	_, err := maker.Parse("not.a.token")
	if !errs.IsInvalidToken(err) {
		t.Fatalf("expected invalid-token error, got %v", err)
	}
}

func TestDefaultExpiry(t *testing.T) {
	t.Parallel()
	maker := NewTokenMaker("test-secret", 0)
	if maker.Expiry() != 24*time.Hour {
		t.Errorf("expiry = %v, want 24h default", maker.Expiry())
	}
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("password not hashed")
	}
	if !ComparePassword("hunter22", hash) {
		t.Error("correct password rejected")
	}
	if ComparePassword("hunter23", hash) {
		t.Error("wrong password accepted")
	}
}

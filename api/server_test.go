package api

import (
	"testing"

	"github.com/verlynk/verlynk-backend/database"
)

func TestNewServerRequiresSigningSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := NewServer(database.Database{}, nil); err == nil {
		t.Fatal("expected boot to fail without a signing secret")
	}
}

func TestNewServerBootsWithSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	server, err := NewServer(database.Database{}, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if server.Handler == nil {
		t.Error("server has no router")
	}
}

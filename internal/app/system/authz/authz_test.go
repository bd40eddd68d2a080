package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/shelfshare/shelfshare/internal/app/system/auth"
	"github.com/shelfshare/shelfshare/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/session", nil)
	username, userID, ok := authz.UserCtx(r)
	if ok {
		t.Error("expected ok=false with no user in context")
	}
	if username != "" || userID != primitive.NilObjectID {
		t.Error("expected zero values with no user in context")
	}
}

func TestUserCtx_ValidUser(t *testing.T) {
	oid := primitive.NewObjectID()
	r := httptest.NewRequest("GET", "/api/session", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: oid.Hex(), Username: "alice"})

	username, userID, ok := authz.UserCtx(r)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if username != "alice" {
		t.Errorf("username: got %q, want %q", username, "alice")
	}
	if userID != oid {
		t.Errorf("userID: got %v, want %v", userID, oid)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/session", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: "not-an-object-id", Username: "mallory"})

	_, _, ok := authz.UserCtx(r)
	if ok {
		t.Error("expected ok=false for malformed user ID")
	}
}

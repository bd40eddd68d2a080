package groups_test

import (
	"net/http"
	"testing"

	"github.com/shelfshare/shelfshare/internal/app/features/groups"
	commentstore "github.com/shelfshare/shelfshare/internal/app/store/comments"
	groupstore "github.com/shelfshare/shelfshare/internal/app/store/groups"
	userstore "github.com/shelfshare/shelfshare/internal/app/store/users"
	"github.com/shelfshare/shelfshare/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*groups.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	gs := groupstore.New(db)
	handler := groups.NewHandler(gs, commentstore.New(db, gs), userstore.New(db), zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestServeCreate(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/api/groups", map[string]string{"name": "bookclub"}, testutil.SomeUser("alice"))
	rec := testutil.NewRecorder()
	handler.ServeCreate(rec, req)

	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "Group created!")
	rec.AssertContains(t, "bookclub")
}

func TestServeCreate_Unauthenticated(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("POST", "/api/groups")
	rec := testutil.NewRecorder()
	handler.ServeCreate(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestServeCreate_DuplicateName(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "hunter2")
	fixtures.CreateGroup(ctx, "bookclub", alice.ID)

	req := testutil.NewJSONRequest(t, "POST", "/api/groups", map[string]string{"name": "BookClub"}, testutil.SomeUser("bob"))
	rec := testutil.NewRecorder()
	handler.ServeCreate(rec, req)

	rec.AssertStatus(t, http.StatusConflict)
}

func TestServeJoin(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "hunter2")
	fixtures.CreateGroup(ctx, "bookclub", alice.ID)
	bob := fixtures.CreateUser(ctx, "bob", "hunter2")

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/name/bookclub", testutil.AsTestUser(bob))
	req = testutil.WithChiURLParam(req, "name", "bookclub")
	rec := testutil.NewRecorder()
	handler.ServeJoin(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Joined the group!")

	// Joining again is a no-op with a different message.
	req = testutil.NewAuthenticatedRequest("POST", "/api/groups/name/bookclub", testutil.AsTestUser(bob))
	req = testutil.WithChiURLParam(req, "name", "bookclub")
	rec = testutil.NewRecorder()
	handler.ServeJoin(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Already a member of this group")
}

func TestServeLeave_AdminCannotLeave(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "hunter2")
	fixtures.CreateGroup(ctx, "bookclub", alice.ID)

	req := testutil.NewJSONRequest(t, "PATCH", "/api/groups/leave", map[string]string{"name": "bookclub"}, testutil.AsTestUser(alice))
	rec := testutil.NewRecorder()
	handler.ServeLeave(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeRemoveMember(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "hunter2")
	bob := fixtures.CreateUser(ctx, "bob", "hunter2")
	g := fixtures.CreateGroup(ctx, "bookclub", alice.ID)
	fixtures.AddMember(ctx, g, bob.ID)

	body := map[string]string{"name": "bookclub", "member": "bob"}
	req := testutil.NewJSONRequest(t, "PATCH", "/api/groups/remove", body, testutil.AsTestUser(alice))
	rec := testutil.NewRecorder()
	handler.ServeRemoveMember(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	gs := groupstore.New(fixtures.DB())
	got, err := gs.GetByName(ctx, "bookclub")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.IsMember(bob.ID) {
		t.Error("bob should have been removed from the group")
	}
}

func TestServeRemoveMember_UnknownUsername(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "hunter2")
	fixtures.CreateGroup(ctx, "bookclub", alice.ID)

	body := map[string]string{"name": "bookclub", "member": "nosuchuser"}
	req := testutil.NewJSONRequest(t, "PATCH", "/api/groups/remove", body, testutil.AsTestUser(alice))
	rec := testutil.NewRecorder()
	handler.ServeRemoveMember(rec, req)

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeChangeAdmin(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "hunter2")
	bob := fixtures.CreateUser(ctx, "bob", "hunter2")
	g := fixtures.CreateGroup(ctx, "bookclub", alice.ID)
	fixtures.AddMember(ctx, g, bob.ID)

	body := map[string]string{"name": "bookclub", "admin": "bob"}
	req := testutil.NewJSONRequest(t, "PATCH", "/api/groups/admin", body, testutil.AsTestUser(alice))
	rec := testutil.NewRecorder()
	handler.ServeChangeAdmin(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	gs := groupstore.New(fixtures.DB())
	got, err := gs.GetByName(ctx, "bookclub")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if !got.IsAdmin(bob.ID) {
		t.Error("bob should be the admin after the change")
	}
}

func TestServeRename(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "hunter2")
	fixtures.CreateGroup(ctx, "bookclub", alice.ID)

	body := map[string]string{"name": "bookclub", "new_name": "pageclub"}
	req := testutil.NewJSONRequest(t, "PATCH", "/api/groups/group", body, testutil.AsTestUser(alice))
	rec := testutil.NewRecorder()
	handler.ServeRename(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "pageclub")
}

func TestServeDelete_CascadesComments(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "hunter2")
	g := fixtures.CreateGroup(ctx, "bookclub", alice.ID)
	root := fixtures.CreateComment(ctx, g.ID, alice.ID, nil, "hello")
	fixtures.CreateComment(ctx, g.ID, alice.ID, &root.ID, "hi back")

	req := testutil.NewJSONRequest(t, "DELETE", "/api/groups", map[string]string{"name": "bookclub"}, testutil.AsTestUser(alice))
	rec := testutil.NewRecorder()
	handler.ServeDelete(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	gs := groupstore.New(fixtures.DB())
	if _, err := gs.GetByName(ctx, "bookclub"); err == nil {
		t.Error("group should be gone after delete")
	}

	cs := commentstore.New(fixtures.DB(), gs)
	left, err := cs.ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("expected no comments after group delete, got %d", len(left))
	}
}

func TestServeDelete_NonAdmin(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "hunter2")
	bob := fixtures.CreateUser(ctx, "bob", "hunter2")
	g := fixtures.CreateGroup(ctx, "bookclub", alice.ID)
	fixtures.AddMember(ctx, g, bob.ID)

	req := testutil.NewJSONRequest(t, "DELETE", "/api/groups", map[string]string{"name": "bookclub"}, testutil.AsTestUser(bob))
	rec := testutil.NewRecorder()
	handler.ServeDelete(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)

	gs := groupstore.New(fixtures.DB())
	if _, err := gs.GetByName(ctx, "bookclub"); err != nil {
		t.Errorf("group should survive a non-admin delete: %v", err)
	}
}

func TestServeListMine(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice", "hunter2")
	bob := fixtures.CreateUser(ctx, "bob", "hunter2")
	fixtures.CreateGroup(ctx, "bookclub", alice.ID)
	g2 := fixtures.CreateGroup(ctx, "scifi", bob.ID)
	fixtures.AddMember(ctx, g2, alice.ID)
	fixtures.CreateGroup(ctx, "poetry", bob.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/api/groups/session", testutil.AsTestUser(alice))
	rec := testutil.NewRecorder()
	handler.ServeListMine(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "bookclub")
	rec.AssertContains(t, "scifi")

	var resp struct {
		Groups []struct {
			Name string `json:"name"`
		} `json:"groups"`
	}
	rec.DecodeJSON(t, &resp)
	if len(resp.Groups) != 2 {
		t.Errorf("expected 2 groups for alice, got %d", len(resp.Groups))
	}
}

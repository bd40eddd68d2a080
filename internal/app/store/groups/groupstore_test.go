package groupstore_test

import (
	"testing"

	"github.com/shelfshare/shelfshare/internal/app/store/groups"
	"github.com/shelfshare/shelfshare/internal/app/system/apperr"
	"github.com/shelfshare/shelfshare/internal/app/system/indexes"
	"github.com/shelfshare/shelfshare/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()

	g, err := store.Create(ctx, admin, "Mystery Readers")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if g.Name != "Mystery Readers" {
		t.Errorf("Name: got %q, want %q", g.Name, "Mystery Readers")
	}
	if g.Admin != admin {
		t.Errorf("Admin: got %v, want %v", g.Admin, admin)
	}
	if len(g.Members) != 1 || g.Members[0] != admin {
		t.Errorf("Members: got %v, want just the admin", g.Members)
	}
	if !g.IsAdmin(admin) || !g.IsMember(admin) {
		t.Error("expected admin to satisfy both IsAdmin and IsMember")
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	admin := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "Book Club"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Same name with different casing must conflict.
	_, err := store.Create(ctx, primitive.NewObjectID(), "book club")
	if !apperr.IsConflict(err) {
		t.Errorf("expected Conflict error, got %v", err)
	}
}

func TestStore_Create_EmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, primitive.NewObjectID(), "   ")
	if !apperr.IsValidation(err) {
		t.Errorf("expected Validation error, got %v", err)
	}
}

func TestStore_GetByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	created, err := store.Create(ctx, admin, "SciFi Circle")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Lookup is case-insensitive.
	g, err := store.GetByName(ctx, "scifi circle")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if g.ID != created.ID {
		t.Errorf("ID: got %v, want %v", g.ID, created.ID)
	}
}

func TestStore_GetByName_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByName(ctx, "nope")
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound error, got %v", err)
	}
}

func TestStore_Join(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	user := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "Poetry Corner"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	g, joined, err := store.Join(ctx, user, "Poetry Corner")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if !joined {
		t.Error("expected joined=true on first join")
	}
	if !g.IsMember(user) {
		t.Error("expected user to be a member after Join")
	}

	// Second join is idempotent.
	g, joined, err = store.Join(ctx, user, "Poetry Corner")
	if err != nil {
		t.Fatalf("second Join failed: %v", err)
	}
	if joined {
		t.Error("expected joined=false when already a member")
	}
	if len(g.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(g.Members))
	}
}

func TestStore_Leave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	user := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "History Buffs"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, _, err := store.Join(ctx, user, "History Buffs"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	g, err := store.Leave(ctx, user, "History Buffs")
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if g.IsMember(user) {
		t.Error("expected user gone after Leave")
	}
}

func TestStore_Leave_NotAMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "History Buffs"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.Leave(ctx, primitive.NewObjectID(), "History Buffs")
	if !apperr.IsAuthorization(err) {
		t.Errorf("expected Authorization error, got %v", err)
	}
}

func TestStore_Leave_AdminCannotLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "History Buffs"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.Leave(ctx, admin, "History Buffs")
	if !apperr.IsAuthorization(err) {
		t.Errorf("expected Authorization error, got %v", err)
	}

	// The group is unchanged.
	g, err := store.GetByName(ctx, "History Buffs")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if !g.IsMember(admin) {
		t.Error("expected admin still a member")
	}
}

func TestStore_RemoveMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	user := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "Writers"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, _, err := store.Join(ctx, user, "Writers"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	g, err := store.RemoveMember(ctx, admin, user, "Writers")
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if g.IsMember(user) {
		t.Error("expected user removed")
	}
}

func TestStore_RemoveMember_Authorization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "Writers"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, _, err := store.Join(ctx, member, "Writers"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	cases := []struct {
		name          string
		actor, target primitive.ObjectID
	}{
		{"non-admin actor", member, admin},
		{"target not a member", admin, outsider},
		{"admin removing self", admin, admin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.RemoveMember(ctx, tc.actor, tc.target, "Writers")
			if !apperr.IsAuthorization(err) {
				t.Errorf("expected Authorization error, got %v", err)
			}
		})
	}
}

func TestStore_ChangeAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "Writers"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, _, err := store.Join(ctx, member, "Writers"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	g, err := store.ChangeAdmin(ctx, admin, member, "Writers")
	if err != nil {
		t.Fatalf("ChangeAdmin failed: %v", err)
	}
	if g.Admin != member {
		t.Errorf("Admin: got %v, want %v", g.Admin, member)
	}
	// The old admin stays a member and can now leave.
	if !g.IsMember(admin) {
		t.Error("expected old admin still a member")
	}
	if _, err := store.Leave(ctx, admin, "Writers"); err != nil {
		t.Errorf("old admin should be able to leave, got %v", err)
	}
}

func TestStore_ChangeAdmin_NewAdminNotMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "Writers"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.ChangeAdmin(ctx, admin, primitive.NewObjectID(), "Writers")
	if !apperr.IsAuthorization(err) {
		t.Errorf("expected Authorization error, got %v", err)
	}
}

func TestStore_Rename(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "Old Name"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	g, err := store.Rename(ctx, admin, "Old Name", "New Name")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if g.Name != "New Name" {
		t.Errorf("Name: got %q, want %q", g.Name, "New Name")
	}

	// Old name no longer resolves.
	if _, err := store.GetByName(ctx, "Old Name"); !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound for old name, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "Doomed"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.Delete(ctx, admin, "Doomed"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByName(ctx, "Doomed"); !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
}

func TestStore_Delete_NonAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	user := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "Sturdy"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, _, err := store.Join(ctx, user, "Sturdy"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	_, err := store.Delete(ctx, user, "Sturdy")
	if !apperr.IsAuthorization(err) {
		t.Errorf("expected Authorization error, got %v", err)
	}
	if _, err := store.GetByName(ctx, "Sturdy"); err != nil {
		t.Errorf("group should survive failed delete, got %v", err)
	}
}

func TestStore_ListForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	user := primitive.NewObjectID()
	if _, err := store.Create(ctx, admin, "Alpha"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, admin, "Beta"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, _, err := store.Join(ctx, user, "Alpha"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	mine, err := store.ListForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Alpha" {
		t.Errorf("expected just Alpha, got %v", mine)
	}

	admins, err := store.ListAdministeredBy(ctx, admin)
	if err != nil {
		t.Fatalf("ListAdministeredBy failed: %v", err)
	}
	if len(admins) != 2 {
		t.Errorf("expected 2 administered groups, got %d", len(admins))
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 groups, got %d", len(all))
	}
}

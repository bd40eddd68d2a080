package commentstore_test

import (
	"strings"
	"testing"

	commentstore "github.com/shelfshare/shelfshare/internal/app/store/comments"
	groupstore "github.com/shelfshare/shelfshare/internal/app/store/groups"
	"github.com/shelfshare/shelfshare/internal/app/system/apperr"
	"github.com/shelfshare/shelfshare/internal/app/system/limits"
	"github.com/shelfshare/shelfshare/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setup(t *testing.T) (*commentstore.Store, *groupstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	groups := groupstore.New(db)
	return commentstore.New(db, groups), groups, testutil.NewFixtures(t, db)
}

func TestStore_Create(t *testing.T) {
	store, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	g := fx.CreateGroup(ctx, "Readers", author)

	c, err := store.Create(ctx, author, "What did everyone think of chapter 3?", g.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Parent != nil {
		t.Error("expected top-level comment to have nil parent")
	}
	if c.Group != g.ID {
		t.Errorf("Group: got %v, want %v", c.Group, g.ID)
	}
}

func TestStore_Create_GroupMissing(t *testing.T) {
	store, _, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, primitive.NewObjectID(), "hello", primitive.NewObjectID())
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound error, got %v", err)
	}
}

func TestStore_Create_BodyValidation(t *testing.T) {
	store, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	g := fx.CreateGroup(ctx, "Readers", author)

	cases := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t "},
		{"markup only", "<script>alert(1)</script>"},
		{"too long", strings.Repeat("a", limits.MaxCommentBodySize+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Create(ctx, author, tc.body, g.ID)
			if !apperr.IsValidation(err) {
				t.Errorf("expected Validation error, got %v", err)
			}
		})
	}
}

func TestStore_Create_SanitizesBody(t *testing.T) {
	store, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	g := fx.CreateGroup(ctx, "Readers", author)

	c, err := store.Create(ctx, author, `great book <script>alert(1)</script>`, g.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if strings.Contains(c.Body, "<script>") {
		t.Errorf("expected script stripped, got %q", c.Body)
	}
	if !strings.Contains(c.Body, "great book") {
		t.Errorf("expected text preserved, got %q", c.Body)
	}
}

func TestStore_Reply(t *testing.T) {
	store, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	g := fx.CreateGroup(ctx, "Readers", author)

	root, err := store.Create(ctx, author, "root", g.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reply, err := store.Reply(ctx, author, "reply", root.ID, g.ID)
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if reply.Parent == nil || *reply.Parent != root.ID {
		t.Errorf("Parent: got %v, want %v", reply.Parent, root.ID)
	}
}

func TestStore_Reply_ParentMissing(t *testing.T) {
	store, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	g := fx.CreateGroup(ctx, "Readers", author)

	_, err := store.Reply(ctx, author, "reply", primitive.NewObjectID(), g.ID)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound error, got %v", err)
	}
}

func TestStore_Remove_CascadesToDescendants(t *testing.T) {
	store, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	g := fx.CreateGroup(ctx, "Readers", author)

	// root -> child -> grandchild, plus an unrelated sibling tree.
	root, err := store.Create(ctx, author, "root", g.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	child, err := store.Reply(ctx, author, "child", root.ID, g.ID)
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if _, err := store.Reply(ctx, author, "grandchild", child.ID, g.ID); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	other, err := store.Create(ctx, author, "other tree", g.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := store.Remove(ctx, root.ID, author)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	// The unrelated tree survives.
	remaining, err := store.ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != other.ID {
		t.Errorf("expected only the unrelated comment to remain, got %v", remaining)
	}
}

func TestStore_Remove_NotAuthor(t *testing.T) {
	store, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	g := fx.CreateGroup(ctx, "Readers", author)

	root, err := store.Create(ctx, author, "root", g.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Reply(ctx, author, "child", root.ID, g.ID); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}

	_, err = store.Remove(ctx, root.ID, primitive.NewObjectID())
	if !apperr.IsAuthorization(err) {
		t.Errorf("expected Authorization error, got %v", err)
	}

	// Nothing was deleted.
	all, err := store.ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 comments after failed remove, got %d", len(all))
	}
}

func TestStore_Remove_Missing(t *testing.T) {
	store, _, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Remove(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound error, got %v", err)
	}
}

func TestStore_Remove_SurvivesParentCycle(t *testing.T) {
	store, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	g := fx.CreateGroup(ctx, "Readers", author)

	// Build a corrupt two-node parent cycle directly in the collection.
	a := fx.CreateComment(ctx, g.ID, author, nil, "a")
	b := fx.CreateComment(ctx, g.ID, author, &a.ID, "b")
	fx.SetCommentParent(ctx, a.ID, b.ID)

	deleted, err := store.Remove(ctx, a.ID, author)
	if err != nil {
		t.Fatalf("Remove failed on cyclic data: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected both cycle members deleted, got %d", deleted)
	}
}

func TestStore_ListByAuthor(t *testing.T) {
	store, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	g1 := fx.CreateGroup(ctx, "One", alice)
	g2 := fx.CreateGroup(ctx, "Two", alice)

	if _, err := store.Create(ctx, alice, "in one", g1.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, alice, "in two", g2.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, bob, "bob's", g1.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mine, err := store.ListByAuthor(ctx, alice)
	if err != nil {
		t.Fatalf("ListByAuthor failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 comments by alice, got %d", len(mine))
	}
}

func TestStore_DeleteByGroup(t *testing.T) {
	store, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	g1 := fx.CreateGroup(ctx, "One", author)
	g2 := fx.CreateGroup(ctx, "Two", author)

	if _, err := store.Create(ctx, author, "a", g1.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, author, "b", g1.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, author, "c", g2.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := store.DeleteByGroup(ctx, g1.ID)
	if err != nil {
		t.Fatalf("DeleteByGroup failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	left, err := store.ListByGroup(ctx, g2.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(left) != 1 {
		t.Errorf("expected other group's comment untouched, got %d", len(left))
	}
}

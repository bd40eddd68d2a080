package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/shelfshare/shelfshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given username and password.
func (f *Fixtures) CreateUser(ctx context.Context, username, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("create test user: %v", err)
	}
	return u
}

// CreateGroup inserts a group administered by admin, with admin as its
// only member.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, admin primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Admin:     admin,
		Members:   []primitive.ObjectID{admin},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("create test group: %v", err)
	}
	return g
}

// AddMember appends a user to a group's member list directly.
func (f *Fixtures) AddMember(ctx context.Context, group models.Group, user primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("groups").UpdateByID(ctx, group.ID,
		bson.M{"$addToSet": bson.M{"members": user}})
	if err != nil {
		f.t.Fatalf("add test group member: %v", err)
	}
}

// CreateComment inserts a comment in the given group. parent may be nil
// for a top-level comment.
func (f *Fixtures) CreateComment(ctx context.Context, group, author primitive.ObjectID, parent *primitive.ObjectID, body string) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Comment{
		ID:        primitive.NewObjectID(),
		Group:     group,
		Author:    author,
		Parent:    parent,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("comments").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("create test comment: %v", err)
	}
	return c
}

// SetCommentParent rewrites a comment's parent reference directly.
// Useful for building corrupt shapes the stores must tolerate.
func (f *Fixtures) SetCommentParent(ctx context.Context, id, parent primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("comments").UpdateByID(ctx, id,
		bson.M{"$set": bson.M{"parent": parent}})
	if err != nil {
		f.t.Fatalf("set test comment parent: %v", err)
	}
}

// CreateBook inserts a book with the given title.
func (f *Fixtures) CreateBook(ctx context.Context, title string, addedBy primitive.ObjectID) models.Book {
	f.t.Helper()

	now := time.Now().UTC()
	b := models.Book{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		AddedBy:   addedBy,
		Groups:    []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("books").InsertOne(ctx, b); err != nil {
		f.t.Fatalf("create test book: %v", err)
	}
	return b
}

// internal/app/store/books/bookstore.go
package bookstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/shelfshare/shelfshare/internal/app/system/apperr"
	"github.com/shelfshare/shelfshare/internal/app/system/normalize"
	"github.com/shelfshare/shelfshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("books")}
}

// Add inserts a new book into the catalog. Title uniqueness is enforced
// by the index on title_ci.
func (s *Store) Add(ctx context.Context, addedBy primitive.ObjectID, title string) (models.Book, error) {
	title = normalize.Title(title)
	if title == "" {
		return models.Book{}, apperr.New(apperr.Validation, "book title must be nonempty")
	}

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
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Book{}, apperr.Newf(apperr.Conflict, "book %q is already in the catalog", title)
		}
		return models.Book{}, err
	}
	return b, nil
}

// GetByTitle loads a book by its folded title.
func (s *Store) GetByTitle(ctx context.Context, title string) (models.Book, error) {
	var b models.Book
	err := s.c.FindOne(ctx, bson.M{"title_ci": text.Fold(normalize.Title(title))}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return models.Book{}, apperr.Newf(apperr.NotFound, "book %q does not exist", title)
	}
	if err != nil {
		return models.Book{}, err
	}
	return b, nil
}

// ListAll returns the whole catalog.
func (s *Store) ListAll(ctx context.Context) ([]models.Book, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	books := []models.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AttachGroup records that a group is reading the book. Idempotent.
func (s *Store) AttachGroup(ctx context.Context, title string, group primitive.ObjectID) (models.Book, error) {
	return s.updateGroups(ctx, title, bson.M{"$addToSet": bson.M{"groups": group}})
}

// DetachGroup removes a group from the book's reading set. Idempotent.
func (s *Store) DetachGroup(ctx context.Context, title string, group primitive.ObjectID) (models.Book, error) {
	return s.updateGroups(ctx, title, bson.M{"$pull": bson.M{"groups": group}})
}

func (s *Store) updateGroups(ctx context.Context, title string, mutation bson.M) (models.Book, error) {
	b, err := s.GetByTitle(ctx, title)
	if err != nil {
		return models.Book{}, err
	}

	mutation["$set"] = bson.M{"updated_at": time.Now().UTC()}
	if _, err := s.c.UpdateByID(ctx, b.ID, mutation); err != nil {
		return models.Book{}, err
	}
	return s.GetByTitle(ctx, title)
}

// internal/app/store/lists/liststore.go
package liststore

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

// Store owns reading lists. List names are unique per owner (folded);
// the books array is mutated with $addToSet/$pull so repeats are
// idempotent.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reading_lists")}
}

// Create inserts a new, empty reading list for owner.
func (s *Store) Create(ctx context.Context, owner primitive.ObjectID, name string) (models.ReadingList, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.ReadingList{}, apperr.New(apperr.Validation, "list name must be nonempty")
	}

	now := time.Now().UTC()
	l := models.ReadingList{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Owner:     owner,
		Books:     []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, l); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ReadingList{}, apperr.Newf(apperr.Conflict, "you already have a list named %s", name)
		}
		return models.ReadingList{}, err
	}
	return l, nil
}

// GetForOwner loads the owner's list by folded name.
func (s *Store) GetForOwner(ctx context.Context, owner primitive.ObjectID, name string) (models.ReadingList, error) {
	var l models.ReadingList
	err := s.c.FindOne(ctx, bson.M{
		"owner":   owner,
		"name_ci": text.Fold(normalize.Name(name)),
	}).Decode(&l)
	if err == mongo.ErrNoDocuments {
		return models.ReadingList{}, apperr.Newf(apperr.NotFound, "list %s does not exist", name)
	}
	if err != nil {
		return models.ReadingList{}, err
	}
	return l, nil
}

// AddBook adds a book id to the owner's list. Idempotent.
func (s *Store) AddBook(ctx context.Context, owner primitive.ObjectID, name string, book primitive.ObjectID) (models.ReadingList, error) {
	return s.mutate(ctx, owner, name, bson.M{"$addToSet": bson.M{"books": book}})
}

// RemoveBook removes a book id from the owner's list. Idempotent.
func (s *Store) RemoveBook(ctx context.Context, owner primitive.ObjectID, name string, book primitive.ObjectID) (models.ReadingList, error) {
	return s.mutate(ctx, owner, name, bson.M{"$pull": bson.M{"books": book}})
}

// Delete removes the owner's list by name.
func (s *Store) Delete(ctx context.Context, owner primitive.ObjectID, name string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"owner":   owner,
		"name_ci": text.Fold(normalize.Name(name)),
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.Newf(apperr.NotFound, "list %s does not exist", name)
	}
	return nil
}

// ListForOwner returns all of the owner's reading lists.
func (s *Store) ListForOwner(ctx context.Context, owner primitive.ObjectID) ([]models.ReadingList, error) {
	cur, err := s.c.Find(ctx, bson.M{"owner": owner})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	lists := []models.ReadingList{}
	if err := cur.All(ctx, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *Store) mutate(ctx context.Context, owner primitive.ObjectID, name string, mutation bson.M) (models.ReadingList, error) {
	l, err := s.GetForOwner(ctx, owner, name)
	if err != nil {
		return models.ReadingList{}, err
	}

	mutation["$set"] = bson.M{"updated_at": time.Now().UTC()}
	if _, err := s.c.UpdateByID(ctx, l.ID, mutation); err != nil {
		return models.ReadingList{}, err
	}
	return s.GetForOwner(ctx, owner, name)
}

// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"time"

	"github.com/shelfshare/shelfshare/internal/app/system/apperr"
	"github.com/shelfshare/shelfshare/internal/app/system/htmlsanitize"
	"github.com/shelfshare/shelfshare/internal/app/system/limits"
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
	return &Store{c: db.Collection("posts")}
}

// Create inserts a new post after sanitizing the content.
func (s *Store) Create(ctx context.Context, author primitive.ObjectID, content string) (models.Post, error) {
	content, err := cleanContent(content)
	if err != nil {
		return models.Post{}, err
	}

	now := time.Now().UTC()
	p := models.Post{
		ID:        primitive.NewObjectID(),
		Author:    author,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// GetByID loads a post.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	var p models.Post
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Post{}, apperr.New(apperr.NotFound, "post does not exist")
	}
	if err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// Update replaces a post's content. Author only.
func (s *Store) Update(ctx context.Context, id, actor primitive.ObjectID, content string) (models.Post, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if p.Author != actor {
		return models.Post{}, apperr.New(apperr.Authorization, "only the author can edit a post")
	}

	content, err = cleanContent(content)
	if err != nil {
		return models.Post{}, err
	}

	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"content":    content,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return models.Post{}, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes a post. Author only; an unauthorized call deletes
// nothing.
func (s *Store) Delete(ctx context.Context, id, actor primitive.ObjectID) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Author != actor {
		return apperr.New(apperr.Authorization, "only the author can delete a post")
	}
	_, err = s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListAll returns every post, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.list(ctx, bson.M{})
}

// ListByAuthor returns the author's posts, newest first.
func (s *Store) ListByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error) {
	return s.list(ctx, bson.M{"author": author})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func cleanContent(content string) (string, error) {
	content = normalize.Body(htmlsanitize.Sanitize(content))
	if content == "" {
		return "", apperr.New(apperr.Validation, "post content must be nonempty")
	}
	if len(content) > limits.MaxPostContentSize {
		return "", apperr.New(apperr.Validation, "post content is too long")
	}
	return content, nil
}

// internal/app/store/comments/commentstore.go
package commentstore

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

// GroupChecker is the narrow capability the comment store needs from the
// group registry: validating a group reference at creation time.
type GroupChecker interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Store owns comment identity, group scoping, and parent/child tree
// relationships. Comments form a forest per group; deletion cascades to
// the whole subtree rooted at the deleted comment.
type Store struct {
	c      *mongo.Collection
	groups GroupChecker
}

func New(db *mongo.Database, groups GroupChecker) *Store {
	return &Store{c: db.Collection("comments"), groups: groups}
}

// Create inserts a root comment (parent = nil) after validating the body
// and the group reference.
func (s *Store) Create(ctx context.Context, author primitive.ObjectID, body string, group primitive.ObjectID) (models.Comment, error) {
	body, err := s.cleanBody(body)
	if err != nil {
		return models.Comment{}, err
	}

	ok, err := s.groups.Exists(ctx, group)
	if err != nil {
		return models.Comment{}, err
	}
	if !ok {
		return models.Comment{}, apperr.New(apperr.NotFound, "group does not exist")
	}

	return s.insert(ctx, author, body, group, nil)
}

// Reply inserts a comment under parent. The parent must exist; the new
// comment inherits its group scope from the caller.
func (s *Store) Reply(ctx context.Context, author primitive.ObjectID, body string, parent, group primitive.ObjectID) (models.Comment, error) {
	body, err := s.cleanBody(body)
	if err != nil {
		return models.Comment{}, err
	}

	err = s.c.FindOne(ctx, bson.M{"_id": parent}).Err()
	if err == mongo.ErrNoDocuments {
		return models.Comment{}, apperr.New(apperr.NotFound, "parent comment does not exist")
	}
	if err != nil {
		return models.Comment{}, err
	}

	return s.insert(ctx, author, body, group, &parent)
}

// GetByID loads a single comment.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var c models.Comment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Comment{}, apperr.New(apperr.NotFound, "comment does not exist")
	}
	if err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// Remove deletes the comment and every transitive descendant. Only the
// comment's author may delete it; an unauthorized call deletes nothing.
// Returns the number of comments deleted.
//
// Descendants are collected with an explicit worklist and a visited set
// rather than recursion, so traversal is bounded even if persisted parent
// references are corrupt (cycles, self-references).
func (s *Store) Remove(ctx context.Context, id, actor primitive.ObjectID) (int64, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if c.Author != actor {
		return 0, apperr.New(apperr.Authorization, "only the author can delete a comment")
	}

	victims, err := s.collectSubtree(ctx, id)
	if err != nil {
		return 0, err
	}

	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": victims}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// collectSubtree returns root plus all ids reachable by following parent
// links downward, each visited at most once.
func (s *Store) collectSubtree(ctx context.Context, root primitive.ObjectID) ([]primitive.ObjectID, error) {
	visited := map[primitive.ObjectID]struct{}{root: {}}
	order := []primitive.ObjectID{root}
	frontier := []primitive.ObjectID{root}

	for len(frontier) > 0 {
		cur, err := s.c.Find(ctx, bson.M{"parent": bson.M{"$in": frontier}})
		if err != nil {
			return nil, err
		}

		var children []models.Comment
		if err := cur.All(ctx, &children); err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}
			order = append(order, child.ID)
			frontier = append(frontier, child.ID)
		}
	}
	return order, nil
}

// ListByGroup returns every comment in the group, unordered. Rebuilding
// the tree is a presentation concern.
func (s *Store) ListByGroup(ctx context.Context, group primitive.ObjectID) ([]models.Comment, error) {
	return s.list(ctx, bson.M{"group": group})
}

// ListByAuthor returns every comment the user has written across groups.
func (s *Store) ListByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Comment, error) {
	return s.list(ctx, bson.M{"author": author})
}

// DeleteByGroup removes every comment in a group. Used by group deletion
// so no orphan comments survive. Returns the number deleted.
func (s *Store) DeleteByGroup(ctx context.Context, group primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group": group})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Comment, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := []models.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Store) insert(ctx context.Context, author primitive.ObjectID, body string, group primitive.ObjectID, parent *primitive.ObjectID) (models.Comment, error) {
	now := time.Now().UTC()
	c := models.Comment{
		ID:        primitive.NewObjectID(),
		Author:    author,
		Body:      body,
		Group:     group,
		Parent:    parent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

func (s *Store) cleanBody(body string) (string, error) {
	body = normalize.Body(htmlsanitize.Sanitize(body))
	if body == "" {
		return "", apperr.New(apperr.Validation, "comment body must be nonempty")
	}
	if len(body) > limits.MaxCommentBodySize {
		return "", apperr.New(apperr.Validation, "comment body is too long")
	}
	return body, nil
}

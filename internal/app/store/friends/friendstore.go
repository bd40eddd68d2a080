// internal/app/store/friends/friendstore.go
package friendstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/shelfshare/shelfshare/internal/app/system/apperr"
	"github.com/shelfshare/shelfshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store owns friendships and friend requests. A request moves through
// pending → accepted|rejected; accepting creates the friendship record.
type Store struct {
	friends  *mongo.Collection
	requests *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		friends:  db.Collection("friends"),
		requests: db.Collection("friend_requests"),
	}
}

// AreFriends reports whether a friendship exists between u1 and u2
// (either insertion order).
func (s *Store) AreFriends(ctx context.Context, u1, u2 primitive.ObjectID) (bool, error) {
	err := s.friends.FindOne(ctx, pairFilter(u1, u2)).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SendRequest creates a pending request from → to. Requests to oneself,
// to an existing friend, or alongside a pending request in either
// direction are conflicts.
func (s *Store) SendRequest(ctx context.Context, from, to primitive.ObjectID) (models.FriendRequest, error) {
	if from == to {
		return models.FriendRequest{}, apperr.New(apperr.Validation, "cannot send a friend request to yourself")
	}

	friends, err := s.AreFriends(ctx, from, to)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if friends {
		return models.FriendRequest{}, apperr.New(apperr.Conflict, "users are already friends")
	}

	pending, err := s.hasPending(ctx, from, to)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if pending {
		return models.FriendRequest{}, apperr.New(apperr.Conflict, "a friend request between these users is already pending")
	}

	now := time.Now().UTC()
	req := models.FriendRequest{
		ID:        primitive.NewObjectID(),
		From:      from,
		To:        to,
		Status:    models.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.requests.InsertOne(ctx, req); err != nil {
		if wafflemongo.IsDup(err) {
			return models.FriendRequest{}, apperr.New(apperr.Conflict, "a friend request between these users is already pending")
		}
		return models.FriendRequest{}, err
	}
	return req, nil
}

// RemoveRequest withdraws a pending request from → to.
func (s *Store) RemoveRequest(ctx context.Context, from, to primitive.ObjectID) error {
	res, err := s.requests.DeleteOne(ctx, bson.M{"from": from, "to": to, "status": models.RequestPending})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "no pending friend request to remove")
	}
	return nil
}

// AcceptRequest settles a pending request from → to and records the
// friendship.
func (s *Store) AcceptRequest(ctx context.Context, from, to primitive.ObjectID) error {
	if err := s.settle(ctx, from, to, models.RequestAccepted); err != nil {
		return err
	}
	_, err := s.friends.InsertOne(ctx, models.Friendship{
		ID:        primitive.NewObjectID(),
		User1:     from,
		User2:     to,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil && !wafflemongo.IsDup(err) {
		return err
	}
	return nil
}

// RejectRequest settles a pending request from → to as rejected.
func (s *Store) RejectRequest(ctx context.Context, from, to primitive.ObjectID) error {
	return s.settle(ctx, from, to, models.RequestRejected)
}

// RemoveFriend deletes the friendship between u1 and u2.
func (s *Store) RemoveFriend(ctx context.Context, u1, u2 primitive.ObjectID) error {
	res, err := s.friends.DeleteOne(ctx, pairFilter(u1, u2))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "users are not friends")
	}
	return nil
}

// Friends returns the ids of every friend of user.
func (s *Store) Friends(ctx context.Context, user primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.friends.Find(ctx, bson.M{"$or": []bson.M{{"user1": user}, {"user2": user}}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := []primitive.ObjectID{}
	for cur.Next(ctx) {
		var f models.Friendship
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		if f.User1 == user {
			ids = append(ids, f.User2)
		} else {
			ids = append(ids, f.User1)
		}
	}
	return ids, cur.Err()
}

// Requests returns every request involving user, settled or pending.
func (s *Store) Requests(ctx context.Context, user primitive.ObjectID) ([]models.FriendRequest, error) {
	cur, err := s.requests.Find(ctx, bson.M{"$or": []bson.M{{"from": user}, {"to": user}}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reqs := []models.FriendRequest{}
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *Store) hasPending(ctx context.Context, u1, u2 primitive.ObjectID) (bool, error) {
	err := s.requests.FindOne(ctx, bson.M{
		"status": models.RequestPending,
		"$or": []bson.M{
			{"from": u1, "to": u2},
			{"from": u2, "to": u1},
		},
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) settle(ctx context.Context, from, to primitive.ObjectID, status string) error {
	res, err := s.requests.UpdateOne(ctx,
		bson.M{"from": from, "to": to, "status": models.RequestPending},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "no pending friend request between these users")
	}
	return nil
}

func pairFilter(u1, u2 primitive.ObjectID) bson.M {
	return bson.M{"$or": []bson.M{
		{"user1": u1, "user2": u2},
		{"user1": u2, "user2": u1},
	}}
}

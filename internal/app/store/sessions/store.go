// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shelfshare/shelfshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoginSession records one login for activity tracking. Token is the
// opaque id carried in the cookie session alongside the user id.
type LoginSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token     string             `bson:"token" json:"token"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	StartedAt time.Time          `bson:"started_at" json:"started_at"`
	EndedAt   *time.Time         `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sessions")}
}

// Start records a fresh login session and returns its token.
func (s *Store) Start(ctx context.Context, user models.User) (string, error) {
	token := uuid.NewString()
	_, err := s.c.InsertOne(ctx, LoginSession{
		ID:        primitive.NewObjectID(),
		Token:     token,
		UserID:    user.ID,
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// End closes the session with the given token. Unknown tokens are a
// no-op (the record may predate a database reset).
func (s *Store) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"token": token, "ended_at": nil},
		bson.M{"$set": bson.M{"ended_at": now}})
	return err
}

// RecentForUser returns the user's most recent login sessions, newest
// first, up to limit.
func (s *Store) RecentForUser(ctx context.Context, user primitive.ObjectID, limit int64) ([]LoginSession, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"user_id": user}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []LoginSession{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

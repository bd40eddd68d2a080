// internal/domain/models/friend.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend request states.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Friendship links two users. The pair is stored in insertion order
// (requester first); queries match either side.
type Friendship struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	User1 primitive.ObjectID `bson:"user1" json:"user1"`
	User2 primitive.ObjectID `bson:"user2" json:"user2"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// FriendRequest tracks a pending/settled request from one user to another.
type FriendRequest struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	From   primitive.ObjectID `bson:"from" json:"from"`
	To     primitive.ObjectID `bson:"to" json:"to"`
	Status string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
